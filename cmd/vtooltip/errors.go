package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tooltip/internal/errors"
)

func errorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "errors [code]",
		Short: "List error codes or explain one",
		Long: `List every error code vtooltip and the live server report, or
print the explanation and documentation link for one code.

Examples:
  vtooltip errors
  vtooltip errors T202`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, code := range errors.GetAllCodes() {
					t, _ := errors.GetTemplate(code)
					fmt.Fprintf(tw, "%s\t%s\t%s\n", code, t.Category, t.Message)
				}
				return tw.Flush()
			}

			code := strings.ToUpper(args[0])
			t, ok := errors.GetTemplate(code)
			if !ok {
				return errors.Newf(errors.CategoryConfig, "unknown error code %q", args[0]).
					WithSuggestion("Run vtooltip errors to list the known codes")
			}
			fmt.Fprintf(out, "%s: %s\n\n", code, t.Message)
			info(cmd, "%s", t.Detail)
			info(cmd, "Category: %s", t.Category)
			info(cmd, "Docs:     %s", t.DocURL)
			return nil
		},
	}
	return cmd
}

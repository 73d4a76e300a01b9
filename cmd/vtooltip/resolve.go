package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/tooltip"
)

func resolveCmd() *cobra.Command {
	var (
		dir    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <side>",
		Short: "Print the anchor pairs for a side",
		Long: `Resolve a tooltip side to its primary and fallback anchor pairs.

Left and right are swapped when the text direction is rtl.

Examples:
  vtooltip resolve bottom
  vtooltip resolve left --dir=rtl
  vtooltip resolve top --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			placement, err := resolvePlacement(args[0], dir)
			if err != nil {
				if !asJSON {
					return err
				}
				fmt.Fprintln(out, err.FormatJSON())
				return &reportedError{err}
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(placement)
			}
			fmt.Fprintf(out, "primary:  %s\n", formatPair(placement.Primary))
			fmt.Fprintf(out, "fallback: %s\n", formatPair(placement.Fallback))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "ltr", "Text direction (ltr or rtl)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the placement, or the error, as JSON")

	return cmd
}

func resolvePlacement(sideArg, dirArg string) (tooltip.Placement, *errors.TooltipError) {
	side, err := tooltip.ParseSide(sideArg)
	if err != nil {
		return tooltip.Placement{}, errors.New(errors.CodeInvalidPosition).Wrap(err).
			WithSuggestion("Use one of: left, right, top, bottom")
	}
	d, err := tooltip.ParseDirection(dirArg)
	if err != nil {
		return tooltip.Placement{}, errors.New(errors.CodeInvalidDirection).Wrap(err).
			WithSuggestion("Use ltr or rtl")
	}
	placement, err := tooltip.Resolve(side, d)
	if err != nil {
		return tooltip.Placement{}, errors.FromError(err, errors.CodeInvalidPosition)
	}
	return placement, nil
}

func formatPair(p tooltip.PositionPair) string {
	return fmt.Sprintf("origin=%s/%s overlay=%s/%s", p.Origin.X, p.Origin.Y, p.Overlay.X, p.Overlay.Y)
}

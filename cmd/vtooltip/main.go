package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tooltip/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var shown *reportedError
		if !stderrors.As(err, &shown) {
			errors.PrintError(err)
		}
		os.Exit(1)
	}
}

// reportedError is an error the command already wrote to its output, as
// with --json.
type reportedError struct{ error }

func (e *reportedError) Unwrap() error { return e.error }

func newRootCmd() *cobra.Command {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "vtooltip",
		Short: "Server-driven tooltips",
		Long: `vtooltip resolves tooltip placements and serves a live tooltip demo.

Tooltips are positioned and timed on the server and rendered by a
small client over a WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				errors.DisableColors()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		resolveCmd(),
		serveCmd(),
		configCmd(),
		errorsCmd(),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	mark := "✓"
	if errors.ColorsEnabled() {
		mark = "\033[32m✓\033[0m"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", fmt.Sprintf(format, args...))
}

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tooltip/internal/config"
	"github.com/vango-dev/tooltip/pkg/live"
)

func serveCmd() *cobra.Command {
	var (
		dir     string
		port    int
		host    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live tooltip demo",
		Long: `Serve the hosts listed in tooltip.json with live tooltips.

Examples:
  vtooltip serve
  vtooltip serve --config=./demo --port=9000
  vtooltip serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd, "Serving %d tooltip hosts", len(cfg.Hosts))
			info(cmd, "http://%s", cfg.Address())

			srv := live.NewServer(cfg, live.WithLogger(logger))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&dir, "config", "c", ".", "Directory containing tooltip.json")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from tooltip.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from tooltip.json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log tooltip events")

	return cmd
}

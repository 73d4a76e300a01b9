package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tooltip/internal/config"
	"github.com/vango-dev/tooltip/internal/errors"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tooltip.json",
	}
	cmd.AddCommand(configInitCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default tooltip.json",
		Long: `Write a tooltip.json with default delays and two example hosts.

Examples:
  vtooltip config init
  vtooltip config init ./demo --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if config.Exists(dir) && !force {
				return errors.Newf(errors.CategoryConfig, "%s already exists in %s", config.ConfigFileName, dir).
					WithSuggestion("Use --force to overwrite it")
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Newf(errors.CategoryConfig, "cannot create %s", dir).Wrap(err)
			}

			cfg := defaultConfig()
			path := filepath.Join(dir, config.ConfigFileName)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}

			success(cmd, "Created %s", path)
			info(cmd, "Run: vtooltip serve --config=%s", dir)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing tooltip.json")

	return cmd
}

// defaultConfig returns the defaults plus two example hosts.
func defaultConfig() *config.Config {
	cfg := config.New()
	cfg.Hosts = []config.HostConfig{
		{ID: "save", Message: "Save the document"},
		{ID: "delete", Message: "Delete permanently", Position: "right", Class: "warn"},
	}
	return cfg
}

// Command feedctl runs schema, seeding and counter maintenance tasks.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"pawfeed/internal/config"
	"pawfeed/internal/middleware"
	"pawfeed/internal/observability"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config
	load := func() (*config.Config, error) {
		if cfg != nil {
			return cfg, nil
		}
		c, err := config.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		logger := middleware.NewLogger(os.Stderr, c.Env, slog.LevelInfo)
		middleware.Logger = logger
		observability.SetLogger(logger)
		cfg = c
		return cfg, nil
	}

	root := &cobra.Command{
		Use:          "feedctl",
		Short:        "PawFeed maintenance commands",
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCmd(load),
		newSeedCmd(load),
		newReconcileCmd(load),
	)
	return root
}

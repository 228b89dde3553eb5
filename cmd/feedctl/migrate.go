package main

import (
	"fmt"
	"strconv"

	"pawfeed/internal/bootstrap"
	"pawfeed/internal/config"
	"pawfeed/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type configLoader func() (*config.Config, error)

// withDB connects without touching the schema or Redis.
func withDB(cmd *cobra.Command, load configLoader, fn func(cfg *config.Config, db *gorm.DB) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	db, _, err := bootstrap.InitRuntime(cmd.Context(), cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		return err
	}
	defer func() { _ = bootstrap.Close(db, nil) }()
	return fn(cfg, db)
}

func newMigrateCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, revert or inspect SQL migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, load, func(_ *config.Config, db *gorm.DB) error {
				applied, err := database.NewRunner(db, database.GetMigrations()).Up(cmd.Context())
				if err != nil {
					return fmt.Errorf("sql migrations failed: %w", err)
				}
				for _, m := range applied {
					cmd.Printf("applied %s\n", m.String())
				}
				cmd.Printf("%d migration(s) applied\n", len(applied))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [version]",
		Short: "Revert the latest migration, or a specific version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, load, func(_ *config.Config, db *gorm.DB) error {
				runner := database.NewRunner(db, database.GetMigrations())
				if len(args) == 1 {
					version, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid version %q: %w", args[0], err)
					}
					if err := runner.Rollback(cmd.Context(), version); err != nil {
						return fmt.Errorf("rollback failed: %w", err)
					}
					cmd.Printf("rolled back migration %d\n", version)
					return nil
				}
				m, err := runner.Down(cmd.Context())
				if err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				if m == nil {
					cmd.Println("nothing to roll back")
					return nil
				}
				cmd.Printf("rolled back %s\n", m.String())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the schema policy and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, load, func(cfg *config.Config, db *gorm.DB) error {
				status, err := database.GetSchemaStatus(cmd.Context(), db, cfg)
				if err != nil {
					return fmt.Errorf("schema status failed: %w", err)
				}
				cmd.Printf("mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d\n",
					status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate,
					len(status.AppliedVersions), len(status.PendingMigrations))
				for _, m := range status.PendingMigrations {
					cmd.Printf("pending: %s\n", m.String())
				}
				return nil
			})
		},
	})

	return cmd
}

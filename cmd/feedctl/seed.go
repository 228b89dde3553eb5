package main

import (
	"fmt"

	"pawfeed/internal/config"
	"pawfeed/internal/database"
	"pawfeed/internal/seed"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newSeedCmd(load configLoader) *cobra.Command {
	var (
		presetName string
		presetFile string
		randSeed   int64
		clean      bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with generated demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, load, func(cfg *config.Config, db *gorm.DB) error {
				if cfg.IsProduction() {
					return fmt.Errorf("refusing to seed in production")
				}
				preset, err := seed.LoadPreset(presetFile, presetName)
				if err != nil {
					return err
				}
				if err := database.ApplySchema(cmd.Context(), db, cfg); err != nil {
					return fmt.Errorf("schema setup failed: %w", err)
				}

				sum, err := seed.Seed(cmd.Context(), db, seed.Options{
					Preset:      preset,
					Seed:        randSeed,
					ShouldClean: clean,
				})
				if err != nil {
					return err
				}
				cmd.Printf("seeded %d users, %d posts, %d comments, %d likes, %d joins\n",
					sum.Users, sum.Posts, sum.Comments, sum.Likes, sum.Joins)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&presetName, "preset", "small", "Preset name")
	cmd.Flags().StringVar(&presetFile, "file", "", "YAML preset file (defaults to the built-in presets)")
	cmd.Flags().Int64Var(&randSeed, "seed", 0, "Random seed; 0 picks one")
	cmd.Flags().BoolVar(&clean, "clean", false, "Delete existing feed data first")
	return cmd
}

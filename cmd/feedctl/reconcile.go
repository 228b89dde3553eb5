package main

import (
	"fmt"

	"pawfeed/internal/cache"
	"pawfeed/internal/config"
	"pawfeed/internal/featureflags"
	"pawfeed/internal/repository"
	"pawfeed/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newReconcileCmd(load configLoader) *cobra.Command {
	var postID string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute like, comment and participant counters from their rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, load, func(cfg *config.Config, db *gorm.DB) error {
				var feed service.FeedInvalidator
				if featureflags.NewManager(cfg.FeatureFlags).EnabledGlobally(featureflags.FeedCache) {
					if rdb := cache.InitRedis(cfg.RedisURL); rdb != nil {
						defer func() { _ = rdb.Close() }()
						feed = cache.NewFeedCache(rdb, cfg.FeedCacheTTL())
					}
				}
				r := service.NewReconciler(repository.NewStorage(db), feed)

				var drifts []service.Drift
				if postID != "" {
					d, err := r.Reconcile(cmd.Context(), postID)
					if err != nil {
						return err
					}
					if d.Changed() {
						drifts = append(drifts, d)
					}
				} else {
					var err error
					if drifts, err = r.ReconcileAll(cmd.Context()); err != nil {
						return fmt.Errorf("reconcile failed: %w", err)
					}
				}

				for _, d := range drifts {
					cmd.Printf("%s stored=%+v actual=%+v\n", d.PostID, d.Stored, d.Actual)
				}
				cmd.Printf("%d post(s) repaired\n", len(drifts))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&postID, "post", "", "Reconcile a single post")
	return cmd
}

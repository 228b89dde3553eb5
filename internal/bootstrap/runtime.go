// Package bootstrap wires the runtime dependencies shared by the server and
// the ops CLI.
package bootstrap

import (
	"context"
	"fmt"

	"pawfeed/internal/cache"
	"pawfeed/internal/config"
	"pawfeed/internal/database"
	"pawfeed/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs migrations per DB_SCHEMA_MODE after connecting.
	ApplySchema bool
	// SkipRedis leaves the cache client nil, e.g. for one-shot CLI commands.
	SkipRedis bool
	// SeedPreset names a built-in seed preset to load after the schema is ready.
	SeedPreset string
}

// InitRuntime connects to the database and Redis. Redis is optional: a nil
// client means the service runs without feed caching and rate limiting.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return nil, nil, fmt.Errorf("schema setup failed: %w", err)
		}
	}

	if opts.SeedPreset != "" {
		if cfg.IsProduction() {
			return nil, nil, fmt.Errorf("refusing to seed %q in production", opts.SeedPreset)
		}
		preset, err := seed.LoadPreset("", opts.SeedPreset)
		if err != nil {
			return nil, nil, err
		}
		if _, err := seed.Seed(ctx, db, seed.Options{Preset: preset}); err != nil {
			return nil, nil, fmt.Errorf("seeding failed: %w", err)
		}
	}

	var rdb *redis.Client
	if !opts.SkipRedis {
		rdb = cache.InitRedis(cfg.RedisURL)
	}
	return db, rdb, nil
}

// Close releases the database and Redis connections.
func Close(db *gorm.DB, rdb *redis.Client) error {
	var firstErr error
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			firstErr = err
		}
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"pawfeed/internal/observability"

	"github.com/redis/go-redis/v9"
)

// FeedCache caches feed listing pages per variant. Each variant has a
// generation counter; bumping it orphans every page cached under the old
// generation, so a write never has to enumerate keys. A nil *FeedCache or a
// nil client disables caching.
type FeedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFeedCache creates a FeedCache. A non-positive ttl selects FeedTTL.
func NewFeedCache(rdb *redis.Client, ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = FeedTTL
	}
	return &FeedCache{rdb: rdb, ttl: ttl}
}

func (c *FeedCache) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *FeedCache) generation(ctx context.Context, variant string) (int64, error) {
	gen, err := c.rdb.Get(ctx, FeedGenerationKey(variant)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Aside serves dest from the cache when present, otherwise runs fetch and
// stores the filled dest. Redis failures fall through to fetch.
func (c *FeedCache) Aside(ctx context.Context, variant, fingerprint string, dest interface{}, fetch func() error) error {
	if !c.enabled() {
		return fetch()
	}
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "feed_aside")
	defer span.End()

	gen, err := c.generation(ctx, variant)
	if err != nil {
		slog.WarnContext(ctx, "feed cache generation lookup failed", slog.String("error", err.Error()))
		return fetch()
	}
	key := FeedPageKey(variant, gen, fingerprint)

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
	}

	if err := fetch(); err != nil {
		return err
	}
	if raw, err := json.Marshal(dest); err == nil {
		if setErr := c.rdb.Set(ctx, key, raw, c.ttl).Err(); setErr != nil {
			slog.WarnContext(ctx, "feed cache store failed", slog.String("error", setErr.Error()))
		}
	}
	return nil
}

// Invalidate bumps the variant's generation.
func (c *FeedCache) Invalidate(ctx context.Context, variant string) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Incr(ctx, FeedGenerationKey(variant)).Err(); err != nil {
		slog.WarnContext(ctx, "feed cache invalidation failed",
			slog.String("variant", variant), slog.String("error", err.Error()))
	}
}

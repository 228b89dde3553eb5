package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawfeed/internal/cache"
	"pawfeed/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

var errNoRedis = errors.New("redis client is nil")

// CheckRateLimit counts one hit for id against resource in a fixed window.
// Returns true if allowed, false if limit exceeded.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, errNoRedis
	}

	key := cache.RateLimitKey(resource, id)
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimitConfig configures a redis-backed fixed window limiter.
type RateLimitConfig struct {
	Redis    *redis.Client
	Resource string
	Limit    int
	Window   time.Duration
	Policy   FailPolicy
	// Skip bypasses the limiter for a request, e.g. when a feature flag is off.
	Skip func(c *fiber.Ctx) bool
}

// RateLimit returns a Fiber middleware enforcing Limit requests per Window.
// It keys by the authenticated user when present, otherwise by remote IP.
func RateLimit(rl RateLimitConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl.Limit <= 0 || (rl.Skip != nil && rl.Skip(c)) {
			return c.Next()
		}

		id := fmt.Sprintf("ip:%s", c.IP())
		if uid, ok := UserID(c); ok {
			id = fmt.Sprintf("user:%s", uid)
		}
		resource := rl.Resource
		if resource == "" {
			resource = c.Path()
		}

		allowed, err := CheckRateLimit(c.UserContext(), rl.Redis, resource, id, rl.Limit, rl.Window)
		if err != nil {
			observability.RedisErrorRate.WithLabelValues("rate_limit").Inc()
			if rl.Policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit unavailable, failing closed",
					"resource", resource, "error", err.Error())
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}

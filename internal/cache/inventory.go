package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	FeedGenerationKeyPrefix = "feed:%s:gen"
	FeedPageKeyPrefix       = "feed:%s:g%d:%s"
	RateLimitKeyPrefix      = "rl:%s:%s"
)

const (
	FeedTTL = 30 * time.Second
)

// FeedGenerationKey holds the version counter for one variant's listings.
func FeedGenerationKey(variant string) string {
	return fmt.Sprintf(FeedGenerationKeyPrefix, variant)
}

// FeedPageKey addresses one cached listing page under a generation.
func FeedPageKey(variant string, generation int64, fingerprint string) string {
	sum := sha1.Sum([]byte(fingerprint))
	return fmt.Sprintf(FeedPageKeyPrefix, variant, generation, hex.EncodeToString(sum[:8]))
}

// RateLimitKey counts hits for one caller against one limited resource.
func RateLimitKey(resource, id string) string {
	return fmt.Sprintf(RateLimitKeyPrefix, resource, id)
}

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawfeed_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pawfeed_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EngagementToggles counts like/join toggles by kind and resulting state.
	EngagementToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawfeed_engagement_toggles_total",
		Help: "Total like and join toggles by kind and result",
	}, []string{"kind", "result"})

	// FeedQueryDuration records feed listing latency per variant.
	FeedQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pawfeed_feed_query_duration_seconds",
		Help:    "Feed listing latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"variant"})

	// CommentListMaskedErrors counts storage failures hidden behind an empty comment list.
	CommentListMaskedErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawfeed_comment_list_masked_errors_total",
		Help: "Comment listings that returned empty because storage failed",
	})

	// CounterDrift counts denormalized counters corrected by reconciliation.
	CounterDrift = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawfeed_counter_drift_total",
		Help: "Denormalized post counters found out of sync and repaired",
	}, []string{"counter"})
)

// RecordToggle increments the toggle counter for kind with the resulting state.
func RecordToggle(kind string, active bool, err error) {
	result := "off"
	switch {
	case err != nil:
		result = "error"
	case active:
		result = "on"
	}
	EngagementToggles.WithLabelValues(kind, result).Inc()
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// TrackFeed returns a function that records feed listing latency when called.
func TrackFeed(variant string) func() {
	start := time.Now()
	return func() {
		FeedQueryDuration.WithLabelValues(variant).Observe(time.Since(start).Seconds())
	}
}

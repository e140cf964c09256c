// Package observability provides Prometheus metrics and OpenTelemetry tracing helpers.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roastarena_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// SubmissionsTotal counts submission attempts by outcome
	// (accepted, rejected, expired, invalid_session).
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roastarena_submissions_total",
		Help: "Total number of roast submission attempts by outcome",
	}, []string{"outcome"})

	// ModerationDecisions counts moderation gate decisions by kind and verdict.
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roastarena_moderation_decisions_total",
		Help: "Total moderation gate decisions by kind (text/image) and verdict",
	}, []string{"kind", "verdict"})

	// ModerationLatency records moderation gate call latency by kind.
	ModerationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roastarena_moderation_latency_seconds",
		Help:    "Moderation gate call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// ArenasCreated counts arenas created by roast level.
	ArenasCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roastarena_arenas_created_total",
		Help: "Total number of arenas created by roast level",
	}, []string{"level"})

	// FeedConnections is the gauge of live feed WebSocket connections per arena.
	FeedConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "roastarena_feed_connections",
		Help: "Number of live feed WebSocket connections per arena",
	}, []string{"arena_id"})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRunsTotal counts finished runs by terminal status
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_sync_runs_total",
			Help: "Total number of sync runs by terminal status",
		},
		[]string{"status"},
	)

	// SyncRunDuration tracks wall time of a run
	SyncRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webinar_sync_run_duration_seconds",
			Help:    "Sync run duration in seconds",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 1800, 3600},
		},
	)

	// QueueItemsProcessed counts queue items by outcome
	QueueItemsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_sync_queue_items_total",
			Help: "Total number of processed queue items by classification and outcome",
		},
		[]string{"classification", "outcome"},
	)

	// ProviderRequests counts provider API calls
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_sync_provider_requests_total",
			Help: "Total number of provider API requests by endpoint and status code class",
		},
		[]string{"endpoint", "code"},
	)

	// RateLimitRetries counts 429 responses absorbed by the limiter
	RateLimitRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webinar_sync_rate_limit_retries_total",
			Help: "Total number of provider 429 responses retried after backoff",
		},
	)

	// RateLimitWaitSeconds tracks how long callers block for a slot
	RateLimitWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webinar_sync_rate_limit_wait_seconds",
			Help:    "Time spent waiting for a rate limiter slot",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// TokenRefreshes counts access token refresh exchanges
	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_sync_token_refreshes_total",
			Help: "Total number of access token refreshes by result",
		},
		[]string{"result"},
	)

	// UpsertRows counts written rows by entity kind and result
	UpsertRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_sync_upsert_rows_total",
			Help: "Total number of upserted rows by entity kind and result",
		},
		[]string{"kind", "result"},
	)

	// PaginationTokensSwept counts expired pagination tokens deleted
	PaginationTokensSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webinar_sync_pagination_tokens_swept_total",
			Help: "Total number of expired pagination tokens deleted",
		},
	)

	// CircuitBreakerState reports the provider breaker state (0 closed, 1 half-open, 2 open)
	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webinar_sync_provider_breaker_state",
			Help: "Provider circuit breaker state",
		},
	)
)

package threads

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "threads_client",
			Name:      "requests_total",
			Help:      "Graph API requests by operation and HTTP status (\"error\" for transport failures).",
		},
		[]string{"operation", "code"},
	)

	apiErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "threads_client",
			Name:      "api_errors_total",
			Help:      "Responses surfaced to callers as APIError.",
		},
		[]string{"operation"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "threads_client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip time of Graph API requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Package metrics holds the prometheus collectors for upstream calls and dashboard renders.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess     = "success"
	OutcomeNetwork     = "network_error"
	OutcomeMalformed   = "malformed"
	OutcomeUndecodable = "undecodable"
	OutcomeUnavailable = "unavailable"
)

//nolint:gochecknoglobals // promauto collectors register once per process.
var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loandash_upstream_requests_total",
			Help: "Requests made to the prediction service",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loandash_upstream_request_duration_seconds",
			Help:    "Latency of requests made to the prediction service",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "loandash_upstream_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	PageRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loandash_page_renders_total",
			Help: "Pages rendered by the dashboard",
		},
		[]string{"table"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loandash_http_requests_total",
			Help: "Requests served by the dashboard",
		},
		[]string{"route", "status"},
	)
)

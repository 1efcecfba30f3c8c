// Package metrics holds Prometheus instruments shared across the application.
// Instruments are registered on the default registry and exposed by the HTTP
// server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// GenerationBuckets covers the much slower content pipeline, where a single
// run chains several model calls and can take minutes.
var GenerationBuckets = []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	// GenerationsTotal counts finished generation runs by outcome
	// ("success", "failure", "rate_limited").
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blogbrain",
		Name:      "generations_total",
		Help:      "Finished blog post generation runs by outcome.",
	}, []string{"outcome"})

	// GenerationDuration observes wall-clock duration of generation runs.
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "blogbrain",
		Name:      "generation_duration_seconds",
		Help:      "Wall-clock duration of blog post generation runs.",
		Buckets:   GenerationBuckets,
	})

	// SearchRequestsTotal counts outbound search API calls by endpoint and
	// outcome ("ok", "rate_limited", "auth", "error").
	SearchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blogbrain",
		Name:      "search_requests_total",
		Help:      "Outbound search provider requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
)

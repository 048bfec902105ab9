// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "omni_api_request_duration_seconds",
			Help:    "Total time taken for requests in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
		},
		[]string{"path"},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omni_api_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)

	ClassifiedIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omni_api_classified_intents_total",
			Help: "Questions classified per intent",
		},
		[]string{"intent"},
	)

	DownstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "omni_api_downstream_latency_seconds",
			Help:    "Latency of downstream collaborator calls in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		},
		[]string{"service"},
	)

	DownstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omni_api_downstream_errors_total",
			Help: "Failed downstream collaborator calls",
		},
		[]string{"service"},
	)

	VerificationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omni_api_verification_outcomes_total",
			Help: "Credential verification outcomes by internal reason",
		},
		[]string{"outcome"},
	)

	StockCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omni_api_stock_cache_total",
			Help: "Market data cache lookups",
		},
		[]string{"result"},
	)
)

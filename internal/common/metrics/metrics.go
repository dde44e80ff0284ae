// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CapabilityCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capability_calls_total",
			Help: "Total number of remote capability invocations",
		},
		[]string{"capability", "status"},
	)

	CapabilityDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "capability_call_duration_seconds",
			Help:    "Duration of remote capability invocations in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"capability"},
	)

	NormalizerSubstitutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalizer_substitutions_total",
			Help: "Fields filled from a fallback or literal placeholder during normalization",
		},
		[]string{"capability", "field", "source"},
	)

	NormalizerShapeMismatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalizer_shape_mismatches_total",
			Help: "Payloads that failed their capability schema check",
		},
		[]string{"capability"},
	)

	RoutingDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_decisions_total",
			Help: "Intent routing outcomes",
		},
		[]string{"intent", "outcome"},
	)

	StaleResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_stale_responses_total",
			Help: "Responses discarded because a newer request was issued for the same slot",
		},
		[]string{"slot"},
	)

	SlotsLoading = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "session_slots_loading",
			Help: "Whether a session slot currently has a request in flight",
		},
		[]string{"slot"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP API requests by route and status code",
		},
		[]string{"route", "code"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

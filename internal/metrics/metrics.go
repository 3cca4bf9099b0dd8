package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway instrumentation: translation outcomes, forwarding latency and the
// size of the in-flight set. Exposed on /metrics by the server.
var (
	RequestsTranslated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_translated_total",
			Help: "Inbound requests successfully translated to backend commands",
		},
		[]string{"method", "index_type"},
	)

	TranslationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_translation_errors_total",
			Help: "Inbound requests rejected before any backend call",
		},
		[]string{"kind"},
	)

	ForwardDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_forward_duration_seconds",
			Help:    "Duration of backend round trips",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	ForwardErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_forward_errors_total",
			Help: "Dispatched commands that failed at the transport boundary",
		},
		[]string{"kind"},
	)

	InFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_inflight_operations",
			Help: "Currently pending asynchronous backend operations",
		},
	)

	MirrorSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_mirror_syncs_total",
			Help: "Metadata mirror check-then-create outcomes",
		},
		[]string{"outcome"}, // "exists", "created", "check_failed", "create_failed", "rejected"
	)
)

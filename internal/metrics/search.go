package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chemsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"endpoint", "method", "outcome"}, // outcome: "ok" / "noop" / "error"
	)

	SearchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chemsearch",
			Name:      "search_stage_duration_seconds",
			Help:      "Duration of search pipeline stages in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"stage"}, // "access" / "dispatch" / "expand" / "paginate"
	)

	SearchBucketElements = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chemsearch",
			Name:      "search_bucket_elements",
			Help:      "Total elements per result bucket",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"bucket"},
	)

	StructureRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chemsearch",
			Name:      "structure_requests_total",
			Help:      "Total number of structure standardization requests",
		},
		[]string{"status"},
	)

	StructureRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chemsearch",
			Name:      "structure_request_duration_seconds",
			Help:      "Structure standardization request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	StructureCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chemsearch",
			Name:      "structure_cache_total",
			Help:      "Structure cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchStageDuration)
	prometheus.MustRegister(SearchBucketElements)
	prometheus.MustRegister(StructureRequestsTotal)
	prometheus.MustRegister(StructureRequestDuration)
	prometheus.MustRegister(StructureCacheTotal)
	searchMetricsRegistered = true
}

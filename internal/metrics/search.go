package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics. The two legs of a hybrid search run
// concurrently, so per-leg durations are recorded separately.
var (
	SearchLegDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalogsearch",
			Name:      "search_leg_duration_seconds",
			Help:      "Duration of a single retrieval leg in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"leg"}, // "vector" / "fuzzy"
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogsearch",
			Name:      "search_requests_total",
			Help:      "Total number of hybrid search requests",
		},
		[]string{"status"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchLegDuration)
	prometheus.MustRegister(SearchRequestsTotal)
	searchMetricsRegistered = true
}

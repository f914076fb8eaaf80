package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchdex",
			Name:      "searches_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"}, // "ok" / "degraded" / "failed"
	)

	SearchPassDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "matchdex",
			Name:      "search_pass_duration_seconds",
			Help:      "Retrieval pass duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"pass"}, // "vector" / "lexical"
	)

	SearchDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchdex",
			Name:      "search_degraded_total",
			Help:      "Searches served from a single retrieval pass",
		},
		[]string{"reason"},
	)

	SearchHitsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "matchdex",
			Name:      "search_hits_returned",
			Help:      "Hits emitted per search after fusion and floors",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchPassDuration)
	prometheus.MustRegister(SearchDegradedTotal)
	prometheus.MustRegister(SearchHitsReturned)
	searchMetricsRegistered = true
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTraversalMetrics() {
	r.TraversalsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphclass_traversals_total",
			Help: "Total number of traversal requests",
		},
		[]string{"algorithm", "status"},
	)

	r.TraversalVisitedNodes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphclass_traversal_visited_nodes",
			Help:    "Number of nodes visited per traversal",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"algorithm"},
	)

	r.TraversalDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphclass_traversal_duration_seconds",
			Help:    "Traversal latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"algorithm"},
	)
}

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the service
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Inference Metrics
	PredictionsTotal       *prometheus.CounterVec
	InferenceDuration      prometheus.Histogram
	InferenceGraphNodes    prometheus.Histogram
	InferenceGraphEdges    prometheus.Histogram
	PredictionConfidence   *prometheus.HistogramVec
	StructuralDisagreement prometheus.Counter
	ModelInfo              *prometheus.GaugeVec
	ModelParameters        prometheus.Gauge
	ModelLoadedTimestamp   prometheus.Gauge

	// Traversal Metrics
	TraversalsTotal       *prometheus.CounterVec
	TraversalVisitedNodes *prometheus.HistogramVec
	TraversalDuration     *prometheus.HistogramVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.RWMutex
	routes    map[string]bool
}

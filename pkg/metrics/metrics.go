// Package metrics exposes Prometheus metrics for the classification
// service.
package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OtherRoute is the path label used for requests to unregistered paths
const OtherRoute = "other"

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
		routes:    make(map[string]bool),
	}

	r.initServerMetrics()
	r.initInferenceMetrics()
	r.initTraversalMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RegisterRoutes declares the paths recorded under their own label. Any
// other path is recorded as OtherRoute so unknown URLs cannot grow the
// label set without bound.
func (r *Registry) RegisterRoutes(paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range paths {
		r.routes[p] = true
	}
}

func (r *Registry) routeLabel(path string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.routes) == 0 || r.routes[path] {
		return path
	}
	return OtherRoute
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	path = r.routeLabel(path)
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of a response body
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, r.routeLabel(path)).Observe(size)
}

// IncHTTPRequestsInFlight increments the in-flight gauge
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight decrements the in-flight gauge
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordPrediction records a successful forward pass
func (r *Registry) RecordPrediction(label, structural string, confidence float64, nodes, edges int, duration time.Duration) {
	r.PredictionsTotal.WithLabelValues(label, StatusSuccess).Inc()
	r.PredictionConfidence.WithLabelValues(label).Observe(confidence)
	r.InferenceDuration.Observe(duration.Seconds())
	r.InferenceGraphNodes.Observe(float64(nodes))
	r.InferenceGraphEdges.Observe(float64(edges))
	if label != structural {
		r.StructuralDisagreement.Inc()
	}
}

// RecordPredictionError records a rejected or failed prediction. status is
// StatusInvalid or StatusError.
func (r *Registry) RecordPredictionError(status string) {
	r.PredictionsTotal.WithLabelValues("", status).Inc()
}

// RecordTraversal records a BFS or DFS walk
func (r *Registry) RecordTraversal(algorithm, status string, visited int, duration time.Duration) {
	r.TraversalsTotal.WithLabelValues(algorithm, status).Inc()
	if status == StatusSuccess {
		r.TraversalVisitedNodes.WithLabelValues(algorithm).Observe(float64(visited))
		r.TraversalDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	}
}

// SetModelInfo publishes the shape and origin of the loaded model
func (r *Registry) SetModelInfo(source string, in, hidden, out, params int) {
	r.ModelInfo.Reset()
	r.ModelInfo.WithLabelValues(source, itoa(in), itoa(hidden), itoa(out)).Set(1)
	r.ModelParameters.Set(float64(params))
	r.ModelLoadedTimestamp.SetToCurrentTime()
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges
func (r *Registry) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}

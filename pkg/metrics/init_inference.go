package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

func (r *Registry) initInferenceMetrics() {
	r.PredictionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphclass_predictions_total",
			Help: "Total number of classification requests by predicted label and status",
		},
		[]string{"label", "status"},
	)

	r.InferenceDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphclass_inference_duration_seconds",
			Help:    "Forward pass latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	r.InferenceGraphNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphclass_inference_graph_nodes",
			Help:    "Node count of classified graphs",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	r.InferenceGraphEdges = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphclass_inference_graph_edges",
			Help:    "Edge count of classified graphs",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	r.PredictionConfidence = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphclass_prediction_confidence",
			Help:    "Softmax probability of the predicted label",
			Buckets: []float64{0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 0.99},
		},
		[]string{"label"},
	)

	r.StructuralDisagreement = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphclass_structural_disagreements_total",
			Help: "Predictions whose label differs from the rule-based structural label",
		},
	)

	r.ModelInfo = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graphclass_model_info",
			Help: "Loaded model; always 1, labels describe the model",
		},
		[]string{"source", "in_channels", "hidden_channels", "out_channels"},
	)

	r.ModelParameters = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphclass_model_parameters",
			Help: "Number of scalar parameters in the loaded model",
		},
	)

	r.ModelLoadedTimestamp = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphclass_model_loaded_timestamp_seconds",
			Help: "Unix time the model was loaded",
		},
	)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// Package service runs graph classification and traversal requests for
// the HTTP and GraphQL transports, recording metrics and logs for each.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/dd0wney/cluso-graphclass/pkg/algorithms"
	"github.com/dd0wney/cluso-graphclass/pkg/classifier"
	"github.com/dd0wney/cluso-graphclass/pkg/logging"
	"github.com/dd0wney/cluso-graphclass/pkg/metrics"
	"github.com/dd0wney/cluso-graphclass/pkg/validation"
)

// Algorithm names a traversal
type Algorithm string

const (
	BFS Algorithm = "bfs"
	DFS Algorithm = "dfs"
)

// Recorder receives per-request domain metrics. *metrics.Registry
// satisfies it.
type Recorder interface {
	RecordPrediction(label, structural string, confidence float64, nodes, edges int, duration time.Duration)
	RecordPredictionError(status string)
	RecordTraversal(algorithm, status string, visited int, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordPrediction(string, string, float64, int, int, time.Duration) {}
func (nopRecorder) RecordPredictionError(string)                                      {}
func (nopRecorder) RecordTraversal(string, string, int, time.Duration)                {}

// Service is safe for concurrent use; it holds no per-request state.
type Service struct {
	classifier *classifier.Classifier
	limits     validation.Limits
	recorder   Recorder
	logger     logging.Logger
}

// Option configures a Service
type Option func(*Service)

// WithRecorder sets the metrics sink
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// ErrNoClassifier is the cause reported by Predict on a traversal-only
// service.
var ErrNoClassifier = errors.New("no classifier loaded")

// New creates a service around a ready classifier
func New(c *classifier.Classifier, limits validation.Limits, opts ...Option) (*Service, error) {
	if c == nil {
		return nil, errors.New("service: nil classifier")
	}
	return buildService(c, limits, opts), nil
}

// NewTraversalService creates a service that only runs traversals, for
// callers that have no model to load. Predict fails with an inference
// error wrapping ErrNoClassifier.
func NewTraversalService(limits validation.Limits, opts ...Option) *Service {
	return buildService(nil, limits, opts)
}

func buildService(c *classifier.Classifier, limits validation.Limits, opts []Option) *Service {
	s := &Service{
		classifier: c,
		limits:     limits,
		recorder:   nopRecorder{},
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classifier returns the underlying classifier, nil for a traversal-only
// service
func (s *Service) Classifier() *classifier.Classifier {
	return s.classifier
}

// Limits returns the request bounds
func (s *Service) Limits() validation.Limits {
	return s.limits
}

// Predict validates req and classifies the graph. Returned errors are
// either *RequestError or *classifier.Error.
func (s *Service) Predict(ctx context.Context, req *validation.PredictRequest) (*classifier.Prediction, error) {
	if err := validation.ValidatePredictRequest(req, s.limits); err != nil {
		s.recorder.RecordPredictionError(metrics.StatusInvalid)
		return nil, &RequestError{Err: err}
	}

	if s.classifier == nil {
		s.recorder.RecordPredictionError(metrics.StatusError)
		return nil, &classifier.Error{Kind: classifier.KindInferenceFailure, Msg: "no model loaded", Err: ErrNoClassifier}
	}

	edges := make([][2]int, len(req.Edges))
	for i, e := range req.Edges {
		edges[i] = e
	}

	start := time.Now()
	pred, err := s.classifier.Classify(ctx, classifier.Request{
		Edges:      edges,
		NodeCount:  req.NodeCount,
		Undirected: req.Undirected,
	})
	elapsed := time.Since(start)

	if err != nil {
		if classifier.KindOf(err) == classifier.KindInvalidInput {
			s.recorder.RecordPredictionError(metrics.StatusInvalid)
			s.logger.Debug("prediction rejected", logging.Error(err))
		} else {
			s.recorder.RecordPredictionError(metrics.StatusError)
			s.logger.Error("inference failed",
				logging.Error(err),
				logging.NodeCount(req.NodeCount),
				logging.EdgeCount(len(edges)),
			)
		}
		return nil, err
	}

	s.recorder.RecordPrediction(pred.Label.String(), pred.StructuralLabel.String(),
		pred.Confidence, req.NodeCount, len(edges), elapsed)
	s.logger.Debug("prediction",
		logging.Label(pred.Label.String()),
		logging.Confidence(pred.Confidence),
		logging.NodeCount(req.NodeCount),
		logging.EdgeCount(len(edges)),
		logging.Latency(elapsed),
	)
	return pred, nil
}

// Traverse validates req and runs the named traversal. A cancelled ctx
// stops the walk and returns ctx.Err().
func (s *Service) Traverse(ctx context.Context, algo Algorithm, req *validation.TraversalRequest) (algorithms.Traversal, error) {
	if algo != BFS && algo != DFS {
		return algorithms.Traversal{}, &RequestError{Err: errors.New("unknown traversal algorithm " + string(algo))}
	}
	if err := validation.ValidateTraversalRequest(req, s.limits); err != nil {
		s.recorder.RecordTraversal(string(algo), metrics.StatusInvalid, 0, 0)
		return algorithms.Traversal{}, &RequestError{Err: err}
	}

	opts := []algorithms.TraversalOption{algorithms.WithContext(ctx)}
	if req.Trace {
		opts = append(opts, algorithms.WithTrace())
	}

	start := time.Now()
	t, err := algorithms.TraverseContext(req.Graph, req.Start, algo == DFS, opts...)
	elapsed := time.Since(start)
	if err != nil {
		s.recorder.RecordTraversal(string(algo), metrics.StatusError, len(t.Order), elapsed)
		return algorithms.Traversal{}, err
	}

	s.recorder.RecordTraversal(string(algo), metrics.StatusSuccess, len(t.Order), elapsed)
	s.logger.Debug("traversal",
		logging.Operation(string(algo)),
		logging.Visited(len(t.Order)),
		logging.Latency(elapsed),
	)
	return t, nil
}

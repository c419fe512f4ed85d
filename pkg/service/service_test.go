package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dd0wney/cluso-graphclass/pkg/classifier"
	"github.com/dd0wney/cluso-graphclass/pkg/gnn"
	"github.com/dd0wney/cluso-graphclass/pkg/graph"
	"github.com/dd0wney/cluso-graphclass/pkg/metrics"
	"github.com/dd0wney/cluso-graphclass/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	kind, status, label string
	count               int
}

type fakeRecorder struct {
	calls []call
}

func (f *fakeRecorder) RecordPrediction(label, _ string, _ float64, nodes, _ int, _ time.Duration) {
	f.calls = append(f.calls, call{kind: "prediction", status: metrics.StatusSuccess, label: label, count: nodes})
}

func (f *fakeRecorder) RecordPredictionError(status string) {
	f.calls = append(f.calls, call{kind: "prediction", status: status})
}

func (f *fakeRecorder) RecordTraversal(algorithm, status string, visited int, _ time.Duration) {
	f.calls = append(f.calls, call{kind: algorithm, status: status, count: visited})
}

func newService(t *testing.T, limits validation.Limits) (*Service, *fakeRecorder) {
	t.Helper()
	c, err := classifier.New(gnn.NewDefaultModel(7), classifier.Options{})
	require.NoError(t, err)
	rec := &fakeRecorder{}
	s, err := New(c, limits, WithRecorder(rec))
	require.NoError(t, err)
	return s, rec
}

func TestNewRequiresClassifier(t *testing.T) {
	_, err := New(nil, validation.Limits{})
	assert.Error(t, err)
}

func TestPredict(t *testing.T) {
	s, rec := newService(t, validation.Limits{})

	pred, err := s.Predict(context.Background(), &validation.PredictRequest{
		Edges:     []graph.Edge{{0, 1}, {1, 2}},
		NodeCount: 3,
	})
	require.NoError(t, err)
	assert.True(t, pred.Label.Valid())
	assert.Equal(t, classifier.LabelTree, pred.StructuralLabel)
	assert.InDelta(t, pred.Probabilities[pred.Label], pred.Confidence, 1e-12)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, call{kind: "prediction", status: metrics.StatusSuccess, label: pred.Label.String(), count: 3}, rec.calls[0])
}

func TestPredictInvalid(t *testing.T) {
	s, rec := newService(t, validation.Limits{MaxNodes: 5})

	tests := []struct {
		name string
		req  *validation.PredictRequest
		msg  string
	}{
		{"empty edges", &validation.PredictRequest{NodeCount: 2}, "edges"},
		{"too many nodes", &validation.PredictRequest{Edges: []graph.Edge{{0, 1}}, NodeCount: 6}, "must not exceed 5"},
		{"endpoint out of range", &validation.PredictRequest{Edges: []graph.Edge{{0, 3}}, NodeCount: 2}, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Predict(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, IsClientError(err))
			assert.Contains(t, PublicMessage(err), tt.msg)
		})
	}
	for _, c := range rec.calls {
		assert.Equal(t, metrics.StatusInvalid, c.status)
	}
}

func TestPredictInferenceFailure(t *testing.T) {
	m := gnn.NewDefaultModel(7)
	c, err := classifier.New(m, classifier.Options{})
	require.NoError(t, err)
	m.Head.Bias[0] = math.NaN()
	rec := &fakeRecorder{}
	s, err := New(c, validation.Limits{}, WithRecorder(rec), WithLogger(nil))
	require.NoError(t, err)

	_, err = s.Predict(context.Background(), &validation.PredictRequest{
		Edges:     []graph.Edge{{0, 1}},
		NodeCount: 2,
	})
	require.Error(t, err)
	assert.False(t, IsClientError(err))
	assert.Equal(t, "inference failed", PublicMessage(err))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, metrics.StatusError, rec.calls[0].status)
}

func TestTraverse(t *testing.T) {
	s, rec := newService(t, validation.Limits{})
	adj := graph.Adjacency{"A": {"B", "C"}, "B": {"D"}, "C": {"E"}, "D": {}, "E": {}}

	bfs, err := s.Traverse(context.Background(), BFS, &validation.TraversalRequest{Graph: adj, Start: "A"})
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{"A", "B", "C", "D", "E"}, bfs.Order)
	assert.Nil(t, bfs.Steps)

	dfs, err := s.Traverse(context.Background(), DFS, &validation.TraversalRequest{Graph: adj, Start: "A", Trace: true})
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{"A", "B", "D", "C", "E"}, dfs.Order)
	assert.NotEmpty(t, dfs.Steps)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, call{kind: "bfs", status: metrics.StatusSuccess, count: 5}, rec.calls[0])
	assert.Equal(t, call{kind: "dfs", status: metrics.StatusSuccess, count: 5}, rec.calls[1])
}

func TestTraversalService(t *testing.T) {
	rec := &fakeRecorder{}
	s := NewTraversalService(validation.Limits{MaxNodes: 2}, WithRecorder(rec))
	assert.Nil(t, s.Classifier())

	got, err := s.Traverse(context.Background(), BFS, &validation.TraversalRequest{
		Graph: graph.Adjacency{"A": {"B"}},
		Start: "A",
	})
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{"A", "B"}, got.Order)

	_, err = s.Traverse(context.Background(), DFS, &validation.TraversalRequest{
		Graph: graph.Adjacency{"A": {"B"}, "B": {"C"}, "C": {}},
		Start: "A",
	})
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.Contains(t, PublicMessage(err), "must not exceed 2")

	_, err = s.Predict(context.Background(), &validation.PredictRequest{
		Edges:     []graph.Edge{{0, 1}},
		NodeCount: 2,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoClassifier)
	assert.ErrorIs(t, err, classifier.ErrInferenceFailure)
	assert.False(t, IsClientError(err))

	require.Len(t, rec.calls, 3)
	assert.Equal(t, call{kind: "dfs", status: metrics.StatusInvalid}, rec.calls[1])
	assert.Equal(t, call{kind: "prediction", status: metrics.StatusError}, rec.calls[2])
}

func TestTraverseErrors(t *testing.T) {
	s, _ := newService(t, validation.Limits{})

	_, err := s.Traverse(context.Background(), BFS, &validation.TraversalRequest{Start: "A"})
	assert.True(t, IsClientError(err))
	assert.Contains(t, PublicMessage(err), "graph")

	_, err = s.Traverse(context.Background(), Algorithm("astar"), &validation.TraversalRequest{})
	assert.True(t, IsClientError(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Traverse(ctx, DFS, &validation.TraversalRequest{Graph: graph.Adjacency{"A": {}}, Start: "A"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsClientError(err))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "internal error", PublicMessage(errors.New("disk on fire")))
	assert.False(t, IsClientError(errors.New("x")))
}

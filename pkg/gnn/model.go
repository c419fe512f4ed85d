package gnn

import (
	"fmt"
)

// Default architecture of the graph classifier
const (
	DefaultInChannels     = 1
	DefaultHiddenChannels = 64
	DefaultOutChannels    = 3
)

// Model is a two-layer GCN followed by mean pooling and a linear head.
// A loaded Model is never mutated, so one instance is shared by all
// requests without locking.
type Model struct {
	Conv1 GCNConv
	Conv2 GCNConv
	Head  Linear
}

// InChannels returns the node feature width the model expects
func (m *Model) InChannels() int { return m.Conv1.Lin.InFeatures() }

// HiddenChannels returns the width of the convolution outputs
func (m *Model) HiddenChannels() int { return m.Conv1.Lin.OutFeatures() }

// OutChannels returns the number of classes
func (m *Model) OutChannels() int { return m.Head.OutFeatures() }

// NumParameters returns the total number of scalar weights
func (m *Model) NumParameters() int {
	n := 0
	for _, l := range []*Linear{&m.Conv1.Lin, &m.Conv2.Lin, &m.Head} {
		n += len(l.Weight.Data) + len(l.Bias)
	}
	return n + len(m.Conv1.Bias) + len(m.Conv2.Bias)
}

// Validate checks that layer shapes chain together
func (m *Model) Validate() error {
	if m.Conv1.Lin.Weight == nil || m.Conv2.Lin.Weight == nil || m.Head.Weight == nil {
		return fmt.Errorf("%w: missing layer weight", ErrInvalidWeights)
	}
	hidden := m.HiddenChannels()
	checks := []struct {
		name      string
		got, want int
	}{
		{"conv1.bias", len(m.Conv1.Bias), hidden},
		{"conv2.lin.weight rows", m.Conv2.Lin.OutFeatures(), hidden},
		{"conv2.lin.weight cols", m.Conv2.Lin.InFeatures(), hidden},
		{"conv2.bias", len(m.Conv2.Bias), hidden},
		{"lin.weight cols", m.Head.InFeatures(), hidden},
		{"lin.bias", len(m.Head.Bias), m.Head.OutFeatures()},
	}
	for _, c := range checks {
		if c.got != c.want {
			return fmt.Errorf("%w: %s is %d, want %d", ErrInvalidWeights, c.name, c.got, c.want)
		}
	}
	if m.InChannels() == 0 || hidden == 0 || m.OutChannels() == 0 {
		return fmt.Errorf("%w: zero-width layer", ErrInvalidWeights)
	}
	return nil
}

// Forward runs conv1 -> ReLU -> conv2 -> ReLU -> mean pool -> linear and
// returns logits with one row per graph in d.
func (m *Model) Forward(d *Data) (*Matrix, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.X.Cols != m.InChannels() {
		return nil, fmt.Errorf("%w: %d node features, model expects %d", ErrShapeMismatch, d.X.Cols, m.InChannels())
	}

	p := gcnNorm(d)

	h, err := m.Conv1.Forward(d.X, p)
	if err != nil {
		return nil, fmt.Errorf("conv1: %w", err)
	}
	h.ReLU()

	h, err = m.Conv2.Forward(h, p)
	if err != nil {
		return nil, fmt.Errorf("conv2: %w", err)
	}
	h.ReLU()

	pooled, err := MeanPool(h, d.Batch, d.NumGraphs())
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}

	logits, err := m.Head.Forward(pooled)
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}
	if err := logits.CheckFinite(); err != nil {
		return nil, err
	}
	return logits, nil
}

// Predict runs a single-graph forward pass with constant node features
// (every node gets a feature vector of ones) and returns the logits.
func (m *Model) Predict(numNodes int, edges [][2]int) ([]float64, error) {
	x := Filled(numNodes, m.InChannels(), 1)
	d, err := NewData(x, edges)
	if err != nil {
		return nil, err
	}
	logits, err := m.Forward(d)
	if err != nil {
		return nil, err
	}
	return logits.Row(0), nil
}

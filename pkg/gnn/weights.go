package gnn

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// WeightsFormat identifies the serialized weights layout
const WeightsFormat = "graphclass-gcn/v1"

// Tensor names in a weights file
const (
	TensorConv1Weight = "conv1.lin.weight"
	TensorConv1Bias   = "conv1.bias"
	TensorConv2Weight = "conv2.lin.weight"
	TensorConv2Bias   = "conv2.bias"
	TensorHeadWeight  = "lin.weight"
	TensorHeadBias    = "lin.bias"
)

// Tensor is a flat row-major tensor with its shape
type Tensor struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// Weights is the on-disk representation of a Model
type Weights struct {
	Format         string            `json:"format"`
	InChannels     int               `json:"in_channels"`
	HiddenChannels int               `json:"hidden_channels"`
	OutChannels    int               `json:"out_channels"`
	Tensors        map[string]Tensor `json:"tensors"`
}

// DecodeModel reads weights JSON from r and builds a validated Model.
func DecodeModel(r io.Reader) (*Model, error) {
	var w Weights
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeights, err)
	}
	return w.Model()
}

// EncodeModel writes m to w as weights JSON
func EncodeModel(w io.Writer, m *Model) error {
	enc := json.NewEncoder(w)
	return enc.Encode(WeightsOf(m))
}

// WeightsOf captures the parameters of m
func WeightsOf(m *Model) *Weights {
	return &Weights{
		Format:         WeightsFormat,
		InChannels:     m.InChannels(),
		HiddenChannels: m.HiddenChannels(),
		OutChannels:    m.OutChannels(),
		Tensors: map[string]Tensor{
			TensorConv1Weight: matrixTensor(m.Conv1.Lin.Weight),
			TensorConv1Bias:   vectorTensor(m.Conv1.Bias),
			TensorConv2Weight: matrixTensor(m.Conv2.Lin.Weight),
			TensorConv2Bias:   vectorTensor(m.Conv2.Bias),
			TensorHeadWeight:  matrixTensor(m.Head.Weight),
			TensorHeadBias:    vectorTensor(m.Head.Bias),
		},
	}
}

// TensorNames returns the tensor names present, sorted
func (w *Weights) TensorNames() []string {
	names := make([]string, 0, len(w.Tensors))
	for name := range w.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Model converts the weights into a Model, checking every tensor shape
// against the declared channel sizes.
func (w *Weights) Model() (*Model, error) {
	if w.Format != WeightsFormat {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidWeights, w.Format)
	}
	if w.InChannels <= 0 || w.HiddenChannels <= 0 || w.OutChannels <= 0 {
		return nil, fmt.Errorf("%w: channel sizes must be positive", ErrInvalidWeights)
	}

	in, hidden, out := w.InChannels, w.HiddenChannels, w.OutChannels

	conv1W, err := w.matrix(TensorConv1Weight, hidden, in)
	if err != nil {
		return nil, err
	}
	conv1B, err := w.vector(TensorConv1Bias, hidden)
	if err != nil {
		return nil, err
	}
	conv2W, err := w.matrix(TensorConv2Weight, hidden, hidden)
	if err != nil {
		return nil, err
	}
	conv2B, err := w.vector(TensorConv2Bias, hidden)
	if err != nil {
		return nil, err
	}
	headW, err := w.matrix(TensorHeadWeight, out, hidden)
	if err != nil {
		return nil, err
	}
	headB, err := w.vector(TensorHeadBias, out)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Conv1: GCNConv{Lin: Linear{Weight: conv1W}, Bias: conv1B},
		Conv2: GCNConv{Lin: Linear{Weight: conv2W}, Bias: conv2B},
		Head:  Linear{Weight: headW, Bias: headB},
	}
	for _, t := range []*Matrix{conv1W, conv2W, headW} {
		if err := t.CheckFinite(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWeights, err)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (w *Weights) matrix(name string, rows, cols int) (*Matrix, error) {
	t, ok := w.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing tensor %s", ErrInvalidWeights, name)
	}
	if len(t.Shape) != 2 || t.Shape[0] != rows || t.Shape[1] != cols {
		return nil, fmt.Errorf("%w: %s has shape %v, want [%d %d]", ErrInvalidWeights, name, t.Shape, rows, cols)
	}
	if len(t.Data) != rows*cols {
		return nil, fmt.Errorf("%w: %s has %d values, want %d", ErrInvalidWeights, name, len(t.Data), rows*cols)
	}
	m := NewMatrix(rows, cols)
	copy(m.Data, t.Data)
	return m, nil
}

func (w *Weights) vector(name string, size int) ([]float64, error) {
	t, ok := w.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing tensor %s", ErrInvalidWeights, name)
	}
	if len(t.Shape) != 1 || t.Shape[0] != size || len(t.Data) != size {
		return nil, fmt.Errorf("%w: %s has shape %v, want [%d]", ErrInvalidWeights, name, t.Shape, size)
	}
	v := make([]float64, size)
	copy(v, t.Data)
	return v, nil
}

func matrixTensor(m *Matrix) Tensor {
	data := make([]float64, len(m.Data))
	copy(data, m.Data)
	return Tensor{Shape: []int{m.Rows, m.Cols}, Data: data}
}

func vectorTensor(v []float64) Tensor {
	data := make([]float64, len(v))
	copy(data, v)
	return Tensor{Shape: []int{len(v)}, Data: data}
}

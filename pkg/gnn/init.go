package gnn

import (
	"math"
	"math/rand/v2"
)

// NewModel returns a model with Glorot-uniform weights and zero biases drawn
// from a seeded generator. The same seed always yields the same weights.
// Such a model is untrained; it exists for smoke tests and for producing a
// weights file of the right shape.
func NewModel(in, hidden, out int, seed uint64) *Model {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &Model{
		Conv1: GCNConv{Lin: Linear{Weight: glorot(rng, hidden, in)}, Bias: make([]float64, hidden)},
		Conv2: GCNConv{Lin: Linear{Weight: glorot(rng, hidden, hidden)}, Bias: make([]float64, hidden)},
		Head:  Linear{Weight: glorot(rng, out, hidden), Bias: make([]float64, out)},
	}
}

// NewDefaultModel returns NewModel with the default 1/64/3 architecture
func NewDefaultModel(seed uint64) *Model {
	return NewModel(DefaultInChannels, DefaultHiddenChannels, DefaultOutChannels, seed)
}

func glorot(rng *rand.Rand, rows, cols int) *Matrix {
	m := NewMatrix(rows, cols)
	bound := math.Sqrt(6 / float64(rows+cols))
	for i := range m.Data {
		m.Data[i] = (rng.Float64()*2 - 1) * bound
	}
	return m
}

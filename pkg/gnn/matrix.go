package gnn

import (
	"fmt"
	"math"
)

// Matrix is a dense row-major float64 matrix.
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

// NewMatrix allocates a zeroed rows x cols matrix
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// Filled returns a rows x cols matrix with every entry set to v
func Filled(rows, cols int, v float64) *Matrix {
	m := NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = v
	}
	return m
}

// FromRows builds a matrix from equal-length rows
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, i, len(r), cols)
		}
		copy(m.Row(i), r)
	}
	return m, nil
}

// At returns element (i, j)
func (m *Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Set assigns element (i, j)
func (m *Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// Row returns a slice view of row i
func (m *Matrix) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// MulTransposed computes x * w^T where w is stored [out, in] like a
// PyTorch Linear weight. x is [n, in], the result [n, out].
func MulTransposed(x, w *Matrix) (*Matrix, error) {
	if x.Cols != w.Cols {
		return nil, fmt.Errorf("%w: input has %d features, weight expects %d", ErrShapeMismatch, x.Cols, w.Cols)
	}
	out := NewMatrix(x.Rows, w.Rows)
	for i := 0; i < x.Rows; i++ {
		xi := x.Row(i)
		oi := out.Row(i)
		for o := 0; o < w.Rows; o++ {
			wo := w.Row(o)
			var sum float64
			for k, v := range xi {
				sum += v * wo[k]
			}
			oi[o] = sum
		}
	}
	return out, nil
}

// AddRowVector adds b to every row in place
func (m *Matrix) AddRowVector(b []float64) error {
	if len(b) != m.Cols {
		return fmt.Errorf("%w: bias has %d entries, matrix has %d columns", ErrShapeMismatch, len(b), m.Cols)
	}
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		for j, v := range b {
			row[j] += v
		}
	}
	return nil
}

// ReLU clamps negative entries to zero in place
func (m *Matrix) ReLU() {
	for i, v := range m.Data {
		if v < 0 {
			m.Data[i] = 0
		}
	}
}

// CheckFinite returns ErrNonFinite if any entry is NaN or infinite
func (m *Matrix) CheckFinite() error {
	for i, v := range m.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w at (%d, %d)", ErrNonFinite, i/m.Cols, i%m.Cols)
		}
	}
	return nil
}

// Softmax returns the numerically stable softmax of logits.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(v - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Argmax returns the index of the largest value; the first wins ties.
func Argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

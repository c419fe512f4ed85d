package gnn

import "fmt"

// Linear is a dense layer y = x W^T + b with W stored [out, in].
type Linear struct {
	Weight *Matrix
	Bias   []float64 // nil for no bias
}

// InFeatures returns the expected input width
func (l *Linear) InFeatures() int { return l.Weight.Cols }

// OutFeatures returns the output width
func (l *Linear) OutFeatures() int { return l.Weight.Rows }

// Forward applies the layer to every row of x
func (l *Linear) Forward(x *Matrix) (*Matrix, error) {
	out, err := MulTransposed(x, l.Weight)
	if err != nil {
		return nil, err
	}
	if l.Bias != nil {
		if err := out.AddRowVector(l.Bias); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GCNConv is a graph convolution (Kipf & Welling): each node sums the
// linearly transformed features of its in-neighbours and itself, weighted
// by the symmetric degree normalization, then adds a bias.
type GCNConv struct {
	Lin  Linear // no bias
	Bias []float64
}

// Forward runs the convolution over a precomputed propagation
func (c *GCNConv) Forward(x *Matrix, p *propagation) (*Matrix, error) {
	if x.Rows != p.numNodes {
		return nil, fmt.Errorf("%w: %d feature rows for %d nodes", ErrShapeMismatch, x.Rows, p.numNodes)
	}
	h, err := c.Lin.Forward(x)
	if err != nil {
		return nil, fmt.Errorf("gcn linear: %w", err)
	}

	out := NewMatrix(h.Rows, h.Cols)
	for k := range p.src {
		w := p.weight[k]
		src := h.Row(p.src[k])
		dst := out.Row(p.dst[k])
		for j, v := range src {
			dst[j] += w * v
		}
	}

	if c.Bias != nil {
		if err := out.AddRowVector(c.Bias); err != nil {
			return nil, fmt.Errorf("gcn bias: %w", err)
		}
	}
	return out, nil
}

// MeanPool averages node rows per graph. batch[i] is the graph of node i;
// the result has one row per graph. Graphs without nodes pool to zero.
func MeanPool(x *Matrix, batch []int, numGraphs int) (*Matrix, error) {
	if len(batch) != x.Rows {
		return nil, fmt.Errorf("%w: batch has %d entries for %d rows", ErrShapeMismatch, len(batch), x.Rows)
	}
	out := NewMatrix(numGraphs, x.Cols)
	counts := make([]int, numGraphs)
	for i, g := range batch {
		if g < 0 || g >= numGraphs {
			return nil, fmt.Errorf("%w: batch index %d outside [0, %d)", ErrInvalidGraph, g, numGraphs)
		}
		counts[g]++
		dst := out.Row(g)
		for j, v := range x.Row(i) {
			dst[j] += v
		}
	}
	for g, c := range counts {
		if c == 0 {
			continue
		}
		row := out.Row(g)
		for j := range row {
			row[j] /= float64(c)
		}
	}
	return out, nil
}

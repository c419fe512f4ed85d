package gnn

import (
	"fmt"
	"math"
)

// Data is one or more graphs ready for a forward pass: node features, a
// directed edge index (messages flow Src[k] -> Dst[k]) and the graph each
// node belongs to.
type Data struct {
	X     *Matrix
	Src   []int
	Dst   []int
	Batch []int
}

// NewData builds a single-graph Data from node features and edges. Every
// node is assigned to batch 0.
func NewData(x *Matrix, edges [][2]int) (*Data, error) {
	d := &Data{
		X:     x,
		Src:   make([]int, len(edges)),
		Dst:   make([]int, len(edges)),
		Batch: make([]int, x.Rows),
	}
	for i, e := range edges {
		d.Src[i], d.Dst[i] = e[0], e[1]
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// NumNodes returns the number of nodes across all graphs
func (d *Data) NumNodes() int {
	return d.X.Rows
}

// NumGraphs returns 1 + the largest batch index
func (d *Data) NumGraphs() int {
	n := 0
	for _, b := range d.Batch {
		if b+1 > n {
			n = b + 1
		}
	}
	return n
}

// Validate checks that edge endpoints and batch entries are consistent with
// the feature matrix.
func (d *Data) Validate() error {
	if d.X == nil {
		return fmt.Errorf("%w: missing node features", ErrInvalidGraph)
	}
	if len(d.Src) != len(d.Dst) {
		return fmt.Errorf("%w: edge index rows differ (%d vs %d)", ErrInvalidGraph, len(d.Src), len(d.Dst))
	}
	if len(d.Batch) != d.X.Rows {
		return fmt.Errorf("%w: batch has %d entries for %d nodes", ErrInvalidGraph, len(d.Batch), d.X.Rows)
	}
	n := d.X.Rows
	for k := range d.Src {
		if d.Src[k] < 0 || d.Src[k] >= n || d.Dst[k] < 0 || d.Dst[k] >= n {
			return fmt.Errorf("%w: edge %d (%d -> %d) outside [0, %d)", ErrInvalidGraph, k, d.Src[k], d.Dst[k], n)
		}
	}
	for i, b := range d.Batch {
		if b < 0 {
			return fmt.Errorf("%w: node %d has negative batch index", ErrInvalidGraph, i)
		}
	}
	return nil
}

// propagation holds the normalized edge weights of one graph convolution:
// D^-1/2 (A + I) D^-1/2 in coordinate form.
type propagation struct {
	numNodes int
	src      []int
	dst      []int
	weight   []float64
}

// gcnNorm drops existing self-loops, adds exactly one self-loop per node,
// and weights each edge j->i by 1/sqrt(deg(j)*deg(i)) where deg counts
// incoming edges. Duplicate edges are kept and counted.
func gcnNorm(d *Data) *propagation {
	n := d.NumNodes()
	p := &propagation{
		numNodes: n,
		src:      make([]int, 0, len(d.Src)+n),
		dst:      make([]int, 0, len(d.Dst)+n),
	}
	for k := range d.Src {
		if d.Src[k] == d.Dst[k] {
			continue
		}
		p.src = append(p.src, d.Src[k])
		p.dst = append(p.dst, d.Dst[k])
	}
	for i := 0; i < n; i++ {
		p.src = append(p.src, i)
		p.dst = append(p.dst, i)
	}

	deg := make([]float64, n)
	for _, i := range p.dst {
		deg[i]++
	}

	p.weight = make([]float64, len(p.src))
	for k := range p.src {
		p.weight[k] = invSqrt(deg[p.src[k]]) * invSqrt(deg[p.dst[k]])
	}
	return p
}

func invSqrt(v float64) float64 {
	if v == 0 {
		return 0
	}
	return 1 / math.Sqrt(v)
}

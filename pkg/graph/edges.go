package graph

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Errors returned by EdgeList.Validate
var (
	ErrNoEdges        = errors.New("edge list is empty")
	ErrNoNodes        = errors.New("node count must be positive")
	ErrNodeOutOfRange = errors.New("edge endpoint out of range")
	ErrMalformedEdge  = errors.New("edge must be a pair of integers")
	ErrTooManyNodes   = errors.New("node count exceeds limit")
	ErrTooManyEdges   = errors.New("edge count exceeds limit")
)

// Edge is a pair of node indices, from then to.
type Edge [2]int

// From returns the source index
func (e Edge) From() int { return e[0] }

// To returns the target index
func (e Edge) To() int { return e[1] }

// UnmarshalJSON accepts exactly a two-element integer array.
// The default array decoding silently pads or truncates, which hides
// malformed input.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var raw []int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEdge, err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("%w: got %d elements", ErrMalformedEdge, len(raw))
	}
	e[0], e[1] = raw[0], raw[1]
	return nil
}

// EdgeList is an indexed graph: nodes are 0..NodeCount-1.
type EdgeList struct {
	Edges     []Edge
	NodeCount int
}

// NewEdgeList builds an EdgeList from raw pairs
func NewEdgeList(pairs [][2]int, nodeCount int) EdgeList {
	edges := make([]Edge, len(pairs))
	for i, p := range pairs {
		edges[i] = Edge(p)
	}
	return EdgeList{Edges: edges, NodeCount: nodeCount}
}

// Limits bounds the size of an EdgeList. Zero means unlimited.
type Limits struct {
	MaxNodes int
	MaxEdges int
}

// RangeError reports an edge endpoint outside [0, NodeCount)
type RangeError struct {
	EdgeIndex int
	Node      int
	NodeCount int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("edge %d references node %d, valid range is [0, %d)", e.EdgeIndex, e.Node, e.NodeCount)
}

func (e *RangeError) Unwrap() error { return ErrNodeOutOfRange }

// Validate checks the list is non-empty and every endpoint is in range.
func (el EdgeList) Validate(limits Limits) error {
	if el.NodeCount <= 0 {
		return ErrNoNodes
	}
	if len(el.Edges) == 0 {
		return ErrNoEdges
	}
	if limits.MaxNodes > 0 && el.NodeCount > limits.MaxNodes {
		return fmt.Errorf("%w: %d > %d", ErrTooManyNodes, el.NodeCount, limits.MaxNodes)
	}
	if limits.MaxEdges > 0 && len(el.Edges) > limits.MaxEdges {
		return fmt.Errorf("%w: %d > %d", ErrTooManyEdges, len(el.Edges), limits.MaxEdges)
	}
	for i, e := range el.Edges {
		for _, n := range e {
			if n < 0 || n >= el.NodeCount {
				return &RangeError{EdgeIndex: i, Node: n, NodeCount: el.NodeCount}
			}
		}
	}
	return nil
}

// Undirected returns a copy with every edge mirrored. Each ordered pair
// appears once, in first-seen order, so a list that already holds both
// directions is unchanged.
func (el EdgeList) Undirected() EdgeList {
	seen := make(map[Edge]struct{}, 2*len(el.Edges))
	edges := make([]Edge, 0, 2*len(el.Edges))
	add := func(e Edge) {
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}
	for _, e := range el.Edges {
		add(e)
		add(Edge{e[1], e[0]})
	}
	return EdgeList{Edges: edges, NodeCount: el.NodeCount}
}

// Successors returns outgoing neighbour indices per node, in edge order.
// Assumes Validate has passed.
func (el EdgeList) Successors() [][]int {
	out := make([][]int, el.NodeCount)
	for _, e := range el.Edges {
		out[e[0]] = append(out[e[0]], e[1])
	}
	return out
}

// Predecessors returns incoming neighbour indices per node, in edge order.
func (el EdgeList) Predecessors() [][]int {
	in := make([][]int, el.NodeCount)
	for _, e := range el.Edges {
		in[e[1]] = append(in[e[1]], e[0])
	}
	return in
}

// Pairs returns the edges as plain integer pairs
func (el EdgeList) Pairs() [][2]int {
	pairs := make([][2]int, len(el.Edges))
	for i, e := range el.Edges {
		pairs[i] = e
	}
	return pairs
}

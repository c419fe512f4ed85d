package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-graphclass/pkg/graph"
)

// StepType classifies a traversal trace event
type StepType string

const (
	// StepVisit is recorded when a node is appended to the visit order
	StepVisit StepType = "visit"
	// StepExplore is recorded when a neighbour is added to the frontier
	StepExplore StepType = "explore"
	// StepComplete is the final event of every traced traversal
	StepComplete StepType = "complete"
)

// TraversalStep is a snapshot of traversal state, used by clients that
// animate the walk. Visited lists the visited set in insertion order; Path
// is the visit order up to this step. The two hold the same nodes because
// a node enters the set exactly when it is appended to the path.
type TraversalStep struct {
	Type     StepType       `json:"type"`
	Node     graph.NodeID   `json:"node"`
	Frontier []graph.NodeID `json:"frontier"`
	Visited  []graph.NodeID `json:"visited"`
	Path     []graph.NodeID `json:"path"`
}

// Traversal is the result of BFS or DFS
type Traversal struct {
	Order []graph.NodeID
	Steps []TraversalStep // nil unless tracing was requested
}

// traversalConfig holds the options for a single traversal
type traversalConfig struct {
	ctx      context.Context
	trace    bool
	maxNodes int
}

// TraversalOption configures BFS and DFS
type TraversalOption func(*traversalConfig)

// WithTrace records a TraversalStep for every visit and exploration.
func WithTrace() TraversalOption {
	return func(c *traversalConfig) { c.trace = true }
}

// WithContext makes the traversal stop early once ctx is done.
func WithContext(ctx context.Context) TraversalOption {
	return func(c *traversalConfig) { c.ctx = ctx }
}

// WithMaxNodes stops the traversal after n nodes have been visited.
func WithMaxNodes(n int) TraversalOption {
	return func(c *traversalConfig) { c.maxNodes = n }
}

func newTraversalConfig(opts []TraversalOption) *traversalConfig {
	cfg := &traversalConfig{ctx: context.Background()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// BFS returns nodes in breadth-first discovery order starting at start.
// A start with no entry in adj is still visited.
func BFS(adj graph.Adjacency, start graph.NodeID, opts ...TraversalOption) Traversal {
	t, _ := TraverseContext(adj, start, false, opts...)
	return t
}

// DFS returns the depth-first preorder starting at start, neighbours taken
// in listed order.
func DFS(adj graph.Adjacency, start graph.NodeID, opts ...TraversalOption) Traversal {
	t, _ := TraverseContext(adj, start, true, opts...)
	return t
}

// TraverseContext runs BFS (depthFirst=false) or DFS and reports ctx.Err()
// if the walk was cut short by cancellation. The partial order is returned
// alongside the error.
func TraverseContext(adj graph.Adjacency, start graph.NodeID, depthFirst bool, opts ...TraversalOption) (Traversal, error) {
	cfg := newTraversalConfig(opts)
	rec := &recorder{enabled: cfg.trace, visited: make(map[graph.NodeID]bool)}

	// frontier is a queue for BFS and a stack for DFS
	frontier := []graph.NodeID{start}

	for len(frontier) > 0 {
		if err := cfg.ctx.Err(); err != nil {
			return rec.result(), err
		}
		if cfg.maxNodes > 0 && len(rec.order) >= cfg.maxNodes {
			break
		}

		var current graph.NodeID
		if depthFirst {
			current = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		} else {
			current = frontier[0]
			frontier = frontier[1:]
		}

		if rec.visited[current] {
			continue
		}
		rec.visit(current, frontier)

		neighbors := adj.Neighbors(current)
		if depthFirst {
			// Reverse push so the first listed neighbour is popped first;
			// this reproduces the recursive preorder exactly.
			for i := len(neighbors) - 1; i >= 0; i-- {
				n := neighbors[i]
				if !rec.visited[n] {
					frontier = append(frontier, n)
					rec.explore(n, frontier)
				}
			}
		} else {
			for _, n := range neighbors {
				if !rec.visited[n] {
					frontier = append(frontier, n)
					rec.explore(n, frontier)
				}
			}
		}
	}

	rec.complete(start)
	return rec.result(), nil
}

// recorder tracks visit order and, when enabled, trace steps
type recorder struct {
	enabled bool
	visited map[graph.NodeID]bool
	order   []graph.NodeID
	steps   []TraversalStep
}

func (r *recorder) visit(n graph.NodeID, frontier []graph.NodeID) {
	r.visited[n] = true
	r.order = append(r.order, n)
	r.record(StepVisit, n, frontier)
}

func (r *recorder) explore(n graph.NodeID, frontier []graph.NodeID) {
	r.record(StepExplore, n, frontier)
}

func (r *recorder) complete(start graph.NodeID) {
	r.record(StepComplete, start, nil)
}

func (r *recorder) record(typ StepType, n graph.NodeID, frontier []graph.NodeID) {
	if !r.enabled {
		return
	}
	r.steps = append(r.steps, TraversalStep{
		Type:     typ,
		Node:     n,
		Frontier: append([]graph.NodeID{}, frontier...),
		Visited:  append([]graph.NodeID{}, r.order...),
		Path:     append([]graph.NodeID{}, r.order...),
	})
}

func (r *recorder) result() Traversal {
	order := r.order
	if order == nil {
		order = []graph.NodeID{}
	}
	return Traversal{Order: order, Steps: r.steps}
}

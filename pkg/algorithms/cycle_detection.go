package algorithms

import (
	"github.com/dd0wney/cluso-graphclass/pkg/graph"
)

// Cycle represents a detected cycle as a sequence of node indices
type Cycle []int

// vertex colours for three-colour DFS
const (
	white = iota // unvisited
	gray         // on the current DFS path
	black        // finished
)

// DetectCycles finds cycles in a directed edge list using DFS with
// three-colour marking. A back edge to a GRAY node closes a cycle. Each
// back edge yields one cycle, so the result is not the full set of simple
// cycles.
//
// The walk uses an explicit stack so long chains cannot exhaust the
// goroutine stack.
func DetectCycles(el graph.EdgeList) []Cycle {
	succ := el.Successors()
	color := make([]int, el.NodeCount)
	parent := make([]int, el.NodeCount)
	cycles := make([]Cycle, 0)

	for root := 0; root < el.NodeCount; root++ {
		if color[root] != white {
			continue
		}
		parent[root] = -1
		walkColored(succ, root, color, parent, func(from, to int) bool {
			if from == to {
				cycles = append(cycles, Cycle{from})
			} else {
				cycles = append(cycles, extractCycle(to, from, parent))
			}
			return true
		})
	}

	return cycles
}

// HasCycle reports whether the directed edge list contains any cycle,
// including self-loops. Faster than DetectCycles since it stops at the
// first back edge.
func HasCycle(el graph.EdgeList) bool {
	succ := el.Successors()
	color := make([]int, el.NodeCount)
	parent := make([]int, el.NodeCount)

	found := false
	for root := 0; root < el.NodeCount && !found; root++ {
		if color[root] != white {
			continue
		}
		parent[root] = -1
		walkColored(succ, root, color, parent, func(_, _ int) bool {
			found = true
			return false
		})
	}
	return found
}

// walkColored runs an iterative three-colour DFS from root. onBackEdge is
// called for every edge into a GRAY node; returning false aborts the walk.
func walkColored(succ [][]int, root int, color, parent []int, onBackEdge func(from, to int) bool) {
	type frame struct {
		node int
		next int // index of the next successor to examine
	}

	stack := []frame{{node: root}}
	color[root] = gray

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(succ[top.node]) {
			color[top.node] = black
			stack = stack[:len(stack)-1]
			continue
		}

		neighbor := succ[top.node][top.next]
		top.next++

		switch color[neighbor] {
		case white:
			parent[neighbor] = top.node
			color[neighbor] = gray
			stack = append(stack, frame{node: neighbor})
		case gray:
			if !onBackEdge(top.node, neighbor) {
				return
			}
		}
		// black: forward or cross edge, no cycle
	}
}

// extractCycle reconstructs the cycle from parent pointers.
// Given a back edge from 'end' to 'start', trace back from 'end' to 'start'.
func extractCycle(start, end int, parent []int) Cycle {
	cycle := Cycle{start}

	current := end
	for current != start && current >= 0 {
		cycle = append(cycle, current)
		current = parent[current]
	}

	return cycle
}

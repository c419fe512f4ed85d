package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-graphclass/pkg/graph"
)

// Structure is the rule-based class of a graph
type Structure string

const (
	StructureCyclic Structure = "Cyclic"
	StructureDAG    Structure = "DAG"
	StructureTree   Structure = "Tree"
)

// IsDAG checks if the edge list is a Directed Acyclic Graph
func IsDAG(el graph.EdgeList) bool {
	return !HasCycle(el)
}

// TopologicalSort returns node indices in topological order using Kahn's
// algorithm. Returns an error if the graph contains a cycle.
// For every directed edge u->v, u comes before v.
func TopologicalSort(el graph.EdgeList) ([]int, error) {
	inDegree := make([]int, el.NodeCount)
	for _, e := range el.Edges {
		inDegree[e.To()]++
	}

	queue := make([]int, 0)
	for n := 0; n < el.NodeCount; n++ {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	succ := el.Successors()
	sorted := make([]int, 0, el.NodeCount)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, next := range succ[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) != el.NodeCount {
		return nil, fmt.Errorf("graph contains cycles, cannot perform topological sort")
	}

	return sorted, nil
}

// IsConnected checks weak connectivity (edges treated as undirected).
// Isolated nodes count, so a node that appears in no edge makes the graph
// disconnected.
func IsConnected(el graph.EdgeList) bool {
	if el.NodeCount <= 1 {
		return true
	}

	succ := el.Successors()
	pred := el.Predecessors()

	visited := make([]bool, el.NodeCount)
	visited[0] = true
	queue := []int{0}
	seen := 1

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, list := range [][]int{succ[current], pred[current]} {
			for _, n := range list {
				if !visited[n] {
					visited[n] = true
					seen++
					queue = append(queue, n)
				}
			}
		}
	}

	return seen == el.NodeCount
}

// IsTree checks if the edge list forms a rooted tree:
//   - exactly n-1 edges for n nodes
//   - no cycles
//   - weakly connected
//   - a single root (in-degree 0)
func IsTree(el graph.EdgeList) bool {
	if el.NodeCount == 0 {
		return false
	}
	if el.NodeCount == 1 {
		return len(el.Edges) == 0
	}
	if len(el.Edges) != el.NodeCount-1 {
		return false
	}
	if HasCycle(el) || !IsConnected(el) {
		return false
	}

	inDegree := make([]int, el.NodeCount)
	for _, e := range el.Edges {
		inDegree[e.To()]++
	}
	roots := 0
	for _, d := range inDegree {
		if d == 0 {
			roots++
		}
	}
	return roots == 1
}

// Classify returns the rule-based structure of a directed edge list:
// Cyclic when any cycle exists, Tree when IsTree holds, DAG otherwise.
func Classify(el graph.EdgeList) Structure {
	switch {
	case HasCycle(el):
		return StructureCyclic
	case IsTree(el):
		return StructureTree
	default:
		return StructureDAG
	}
}

package algorithms

import (
	"strconv"
	"testing"

	"github.com/dd0wney/cluso-graphclass/pkg/graph"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const propertyNodes = 10

func nodeName(i int) graph.NodeID {
	return graph.NodeID(strconv.Itoa(i))
}

// randomAdjacency zips two index slices into directed edges
func randomAdjacency(froms, tos []int) graph.Adjacency {
	adj := make(graph.Adjacency)
	for i := 0; i < len(froms) && i < len(tos); i++ {
		from := nodeName(froms[i])
		adj[from] = append(adj[from], nodeName(tos[i]))
	}
	return adj
}

// reachable counts distinct nodes reachable from start, start included
func reachable(adj graph.Adjacency, start graph.NodeID) int {
	seen := map[graph.NodeID]bool{start: true}
	queue := []graph.NodeID{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, next := range adj[n] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return len(seen)
}

func noDuplicates(order []graph.NodeID) bool {
	seen := make(map[graph.NodeID]bool, len(order))
	for _, n := range order {
		if seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}

// TestTraversalInvariants uses property-based testing to verify the
// traversal invariants on random directed graphs
func TestTraversalInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	indexGen := gen.SliceOf(gen.IntRange(0, propertyNodes-1))

	properties.Property("BFS never repeats a node", prop.ForAll(
		func(froms, tos []int, start int) bool {
			return noDuplicates(BFS(randomAdjacency(froms, tos), nodeName(start)).Order)
		},
		indexGen, indexGen, gen.IntRange(0, propertyNodes-1),
	))

	properties.Property("DFS never repeats a node", prop.ForAll(
		func(froms, tos []int, start int) bool {
			return noDuplicates(DFS(randomAdjacency(froms, tos), nodeName(start)).Order)
		},
		indexGen, indexGen, gen.IntRange(0, propertyNodes-1),
	))

	properties.Property("traversals visit exactly the reachable set", prop.ForAll(
		func(froms, tos []int, start int) bool {
			adj := randomAdjacency(froms, tos)
			want := reachable(adj, nodeName(start))
			return len(BFS(adj, nodeName(start)).Order) == want &&
				len(DFS(adj, nodeName(start)).Order) == want
		},
		indexGen, indexGen, gen.IntRange(0, propertyNodes-1),
	))

	properties.Property("traversals start at start", prop.ForAll(
		func(froms, tos []int, start int) bool {
			adj := randomAdjacency(froms, tos)
			return BFS(adj, nodeName(start)).Order[0] == nodeName(start) &&
				DFS(adj, nodeName(start)).Order[0] == nodeName(start)
		},
		indexGen, indexGen, gen.IntRange(0, propertyNodes-1),
	))

	properties.TestingRun(t)
}

// TestDFSPreorderOnTrees checks that on a rooted tree every parent is
// visited before its descendants
func TestDFSPreorderOnTrees(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("parent precedes child", prop.ForAll(
		func(choices []int) bool {
			// node i+1 hangs off a node with a smaller index
			adj := graph.Adjacency{nodeName(0): {}}
			parent := make(map[graph.NodeID]graph.NodeID)
			for i, c := range choices {
				child := nodeName(i + 1)
				p := nodeName(c % (i + 1))
				adj[p] = append(adj[p], child)
				parent[child] = p
			}

			order := DFS(adj, nodeName(0)).Order
			if len(order) != len(choices)+1 {
				return false
			}
			pos := make(map[graph.NodeID]int, len(order))
			for i, n := range order {
				pos[n] = i
			}
			for child, p := range parent {
				if pos[p] >= pos[child] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.Property("structural classifier agrees with IsTree", prop.ForAll(
		func(choices []int) bool {
			pairs := make([][2]int, 0, len(choices))
			for i, c := range choices {
				pairs = append(pairs, [2]int{c % (i + 1), i + 1})
			}
			el := graph.NewEdgeList(pairs, len(choices)+1)
			return IsTree(el) && Classify(el) == StructureTree
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}

package algorithms

import (
	"context"
	"reflect"
	"strconv"
	"testing"

	"github.com/dd0wney/cluso-graphclass/pkg/graph"
)

func ids(names ...string) []graph.NodeID {
	out := make([]graph.NodeID, len(names))
	for i, n := range names {
		out[i] = graph.NodeID(n)
	}
	return out
}

// sampleGraph is the four-node tree A->{B,C}, B->{D}
func sampleGraph() graph.Adjacency {
	return graph.Adjacency{
		"A": ids("B", "C"),
		"B": ids("D"),
		"C": {},
		"D": {},
	}
}

func TestBFS_SampleGraph(t *testing.T) {
	got := BFS(sampleGraph(), "A")
	want := ids("A", "B", "C", "D")
	if !reflect.DeepEqual(got.Order, want) {
		t.Errorf("BFS order = %v, want %v", got.Order, want)
	}
	if got.Steps != nil {
		t.Error("Steps should be nil without tracing")
	}
}

func TestDFS_SampleGraph(t *testing.T) {
	got := DFS(sampleGraph(), "A")
	want := ids("A", "B", "D", "C")
	if !reflect.DeepEqual(got.Order, want) {
		t.Errorf("DFS order = %v, want %v", got.Order, want)
	}
}

func TestTraversal_StartMissingFromGraph(t *testing.T) {
	adj := graph.Adjacency{"A": ids("B")}

	for name, fn := range map[string]func(graph.Adjacency, graph.NodeID, ...TraversalOption) Traversal{
		"BFS": BFS,
		"DFS": DFS,
	} {
		t.Run(name, func(t *testing.T) {
			got := fn(adj, "Z")
			if !reflect.DeepEqual(got.Order, ids("Z")) {
				t.Errorf("%s order = %v, want [Z]", name, got.Order)
			}
		})
	}
}

func TestTraversal_EmptyGraph(t *testing.T) {
	got := BFS(graph.Adjacency{}, "A")
	if !reflect.DeepEqual(got.Order, ids("A")) {
		t.Errorf("BFS order = %v, want [A]", got.Order)
	}
}

func TestTraversal_Cycle(t *testing.T) {
	// A -> B -> C -> A, plus self-loop on C
	adj := graph.Adjacency{
		"A": ids("B"),
		"B": ids("C"),
		"C": ids("C", "A"),
	}

	if got := BFS(adj, "B").Order; !reflect.DeepEqual(got, ids("B", "C", "A")) {
		t.Errorf("BFS order = %v", got)
	}
	if got := DFS(adj, "A").Order; !reflect.DeepEqual(got, ids("A", "B", "C")) {
		t.Errorf("DFS order = %v", got)
	}
}

func TestDFS_MatchesRecursivePreorder(t *testing.T) {
	// Diamond with a shared descendant; the iterative walk must not
	// visit D via C before finishing B's subtree.
	adj := graph.Adjacency{
		"A": ids("B", "C"),
		"B": ids("D", "E"),
		"C": ids("D", "F"),
		"D": ids("G"),
	}

	want := recursiveDFS(adj, "A")
	got := DFS(adj, "A").Order
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DFS order = %v, recursive = %v", got, want)
	}
}

func recursiveDFS(adj graph.Adjacency, start graph.NodeID) []graph.NodeID {
	visited := make(map[graph.NodeID]bool)
	var order []graph.NodeID
	var visit func(graph.NodeID)
	visit = func(n graph.NodeID) {
		visited[n] = true
		order = append(order, n)
		for _, next := range adj[n] {
			if !visited[next] {
				visit(next)
			}
		}
	}
	visit(start)
	return order
}

func TestDFS_LongChain(t *testing.T) {
	const n = 200000
	adj := make(graph.Adjacency, n)
	for i := 0; i < n-1; i++ {
		adj[graph.NodeID(strconv.Itoa(i))] = []graph.NodeID{graph.NodeID(strconv.Itoa(i + 1))}
	}

	got := DFS(adj, "0")
	if len(got.Order) != n {
		t.Fatalf("DFS visited %d nodes, want %d", len(got.Order), n)
	}
	if got.Order[n-1] != graph.NodeID(strconv.Itoa(n-1)) {
		t.Errorf("last node = %s", got.Order[n-1])
	}
}

func TestTraversal_Trace(t *testing.T) {
	got := BFS(sampleGraph(), "A", WithTrace())

	if len(got.Steps) == 0 {
		t.Fatal("expected trace steps")
	}
	first := got.Steps[0]
	if first.Type != StepVisit || first.Node != "A" {
		t.Errorf("first step = %+v, want visit A", first)
	}
	last := got.Steps[len(got.Steps)-1]
	if last.Type != StepComplete {
		t.Errorf("last step type = %s, want complete", last.Type)
	}
	if !reflect.DeepEqual(last.Path, got.Order) {
		t.Errorf("final path = %v, want %v", last.Path, got.Order)
	}

	visits := 0
	for _, s := range got.Steps {
		if s.Type == StepVisit {
			visits++
		}
	}
	if visits != len(got.Order) {
		t.Errorf("visit steps = %d, want %d", visits, len(got.Order))
	}
}

func TestTraversal_TraceVisited(t *testing.T) {
	got := BFS(sampleGraph(), "A", WithTrace())

	for i, s := range got.Steps {
		if !reflect.DeepEqual(s.Visited, s.Path) {
			t.Errorf("step %d visited = %v, path = %v", i, s.Visited, s.Path)
		}
	}
	first := got.Steps[0]
	if !reflect.DeepEqual(first.Visited, ids("A")) {
		t.Errorf("visited after first visit = %v, want [A]", first.Visited)
	}
	last := got.Steps[len(got.Steps)-1]
	if !reflect.DeepEqual(last.Visited, got.Order) {
		t.Errorf("final visited = %v, want %v", last.Visited, got.Order)
	}

	// snapshots must not alias each other
	first.Visited[0] = "Z"
	if got.Steps[1].Visited[0] != "A" {
		t.Error("visited snapshots share backing storage")
	}
}

func TestTraversal_TraceFrontier(t *testing.T) {
	got := DFS(sampleGraph(), "A", WithTrace())

	// After visiting A, C is pushed before B so B sits on top of the stack.
	var explores []TraversalStep
	for _, s := range got.Steps {
		if s.Type == StepExplore {
			explores = append(explores, s)
		}
	}
	if len(explores) < 2 {
		t.Fatalf("expected at least 2 explore steps, got %d", len(explores))
	}
	if !reflect.DeepEqual(explores[1].Frontier, ids("C", "B")) {
		t.Errorf("stack after pushing A's neighbours = %v", explores[1].Frontier)
	}
}

func TestTraverseContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := TraverseContext(sampleGraph(), "A", false, WithContext(ctx))
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(got.Order) != 0 {
		t.Errorf("cancelled traversal visited %v", got.Order)
	}
}

func TestTraversal_MaxNodes(t *testing.T) {
	got := BFS(sampleGraph(), "A", WithMaxNodes(2))
	if !reflect.DeepEqual(got.Order, ids("A", "B")) {
		t.Errorf("BFS order = %v, want [A B]", got.Order)
	}
}

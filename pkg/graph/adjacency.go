package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// NodeID identifies a node in an adjacency mapping.
type NodeID string

// UnmarshalJSON accepts a JSON string or an integer. Browser clients send
// both, depending on whether node ids were generated or typed.
func (n *NodeID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NodeID(s)
		return nil
	}
	var i int64
	if err := json.Unmarshal(data, &i); err != nil {
		return fmt.Errorf("node id must be a string or integer: %s", string(data))
	}
	*n = NodeID(strconv.FormatInt(i, 10))
	return nil
}

// Adjacency maps each node to its neighbours, in listed order.
type Adjacency map[NodeID][]NodeID

// Neighbors returns the listed neighbours of id, nil if absent.
func (a Adjacency) Neighbors(id NodeID) []NodeID {
	return a[id]
}

// Nodes returns every node mentioned as a key or neighbour, sorted.
func (a Adjacency) Nodes() []NodeID {
	seen := make(map[NodeID]struct{}, len(a))
	for k, vs := range a {
		seen[k] = struct{}{}
		for _, v := range vs {
			seen[v] = struct{}{}
		}
	}
	nodes := make([]NodeID, 0, len(seen))
	for k := range seen {
		nodes = append(nodes, k)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// AdjacencyFromEdges builds an Adjacency from an indexed edge list, using
// the decimal index as node id. Every node gets an entry.
func AdjacencyFromEdges(el EdgeList) Adjacency {
	adj := make(Adjacency, el.NodeCount)
	for i := 0; i < el.NodeCount; i++ {
		adj[indexID(i)] = []NodeID{}
	}
	for _, e := range el.Edges {
		from := indexID(e[0])
		adj[from] = append(adj[from], indexID(e[1]))
	}
	return adj
}

func indexID(i int) NodeID {
	return NodeID(strconv.Itoa(i))
}

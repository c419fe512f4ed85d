package graphql

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-graphclass/pkg/algorithms"
	"github.com/dd0wney/cluso-graphclass/pkg/classifier"
	"github.com/dd0wney/cluso-graphclass/pkg/graph"
	"github.com/dd0wney/cluso-graphclass/pkg/service"
	"github.com/dd0wney/cluso-graphclass/pkg/validation"
	"github.com/graphql-go/graphql"
)

// NewSchema builds the query schema over svc:
//
//	health: String
//	predictGraphType(edges: [[Int!]!]!, nodeCount: Int!, undirected: Boolean): Prediction
//	bfs(graph: [AdjacencyEntry!]!, start: String!, trace: Boolean): Traversal
//	dfs(graph: [AdjacencyEntry!]!, start: String!, trace: Boolean): Traversal
func NewSchema(svc *service.Service) (graphql.Schema, error) {
	if svc == nil {
		return graphql.Schema{}, errors.New("graphql: nil service")
	}

	predictionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Prediction",
		Fields: graphql.Fields{
			"label":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"confidence":      &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"probabilities":   &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.Float))},
			"logits":          &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.Float))},
			"structuralLabel": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	stepType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TraversalStep",
		Fields: graphql.Fields{
			"type":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"node":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"frontier": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"visited":  &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"path":     &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})

	traversalType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Traversal",
		Fields: graphql.Fields{
			"order": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
			"steps": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(stepType))},
		},
	})

	adjacencyEntry := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AdjacencyEntry",
		Fields: graphql.InputObjectConfigFieldMap{
			"node":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"neighbors": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
		},
	})

	traversalArgs := graphql.FieldConfigArgument{
		"graph": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(adjacencyEntry)))},
		"start": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"trace": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"predictGraphType": &graphql.Field{
				Type: predictionType,
				Args: graphql.FieldConfigArgument{
					"edges":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.Int)))))},
					"nodeCount":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"undirected": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: predictResolver(svc),
			},
			"bfs": &graphql.Field{
				Type:    traversalType,
				Args:    traversalArgs,
				Resolve: traversalResolver(svc, service.BFS),
			},
			"dfs": &graphql.Field{
				Type:    traversalType,
				Args:    traversalArgs,
				Resolve: traversalResolver(svc, service.DFS),
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func predictResolver(svc *service.Service) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		edges, err := edgesArg(p.Args["edges"])
		if err != nil {
			return nil, err
		}
		nodeCount, _ := toInt(p.Args["nodeCount"])

		req := &validation.PredictRequest{Edges: edges, NodeCount: nodeCount}
		if u, ok := p.Args["undirected"].(bool); ok {
			req.Undirected = &u
		}

		pred, err := svc.Predict(p.Context, req)
		if err != nil {
			return nil, errors.New(service.PublicMessage(err))
		}
		return predictionResult(pred), nil
	}
}

func traversalResolver(svc *service.Service, algo service.Algorithm) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		adj, err := adjacencyArg(p.Args["graph"])
		if err != nil {
			return nil, err
		}
		start, _ := p.Args["start"].(string)
		trace, _ := p.Args["trace"].(bool)

		t, err := svc.Traverse(p.Context, algo, &validation.TraversalRequest{
			Graph: adj,
			Start: graph.NodeID(start),
			Trace: trace,
		})
		if err != nil {
			return nil, errors.New(service.PublicMessage(err))
		}
		return traversalResult(t), nil
	}
}

func predictionResult(pred *classifier.Prediction) map[string]any {
	return map[string]any{
		"label":           pred.Label.String(),
		"confidence":      pred.Confidence,
		"probabilities":   pred.Probabilities,
		"logits":          pred.Logits,
		"structuralLabel": pred.StructuralLabel.String(),
	}
}

func traversalResult(t algorithms.Traversal) map[string]any {
	out := map[string]any{"order": idStrings(t.Order)}
	if t.Steps != nil {
		steps := make([]any, len(t.Steps))
		for i, s := range t.Steps {
			steps[i] = map[string]any{
				"type":     string(s.Type),
				"node":     string(s.Node),
				"frontier": idStrings(s.Frontier),
				"visited":  idStrings(s.Visited),
				"path":     idStrings(s.Path),
			}
		}
		out["steps"] = steps
	}
	return out
}

func idStrings(ids []graph.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// edgesArg converts [[Int!]!]! argument values into edges
func edgesArg(v any) ([]graph.Edge, error) {
	list, _ := v.([]any)
	edges := make([]graph.Edge, 0, len(list))
	for i, item := range list {
		pair, _ := item.([]any)
		if len(pair) != 2 {
			return nil, fmt.Errorf("edges[%d]: must have exactly 2 elements", i)
		}
		from, ok1 := toInt(pair[0])
		to, ok2 := toInt(pair[1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("edges[%d]: endpoints must be integers", i)
		}
		edges = append(edges, graph.Edge{from, to})
	}
	return edges, nil
}

// adjacencyArg converts [AdjacencyEntry!]! argument values. Repeated
// nodes append to the same neighbour list.
func adjacencyArg(v any) (graph.Adjacency, error) {
	list, _ := v.([]any)
	adj := make(graph.Adjacency, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("graph[%d]: expected an object", i)
		}
		node, _ := entry["node"].(string)
		neighbors, _ := entry["neighbors"].([]any)
		ids := adj[graph.NodeID(node)]
		if ids == nil {
			ids = make([]graph.NodeID, 0, len(neighbors))
		}
		for _, n := range neighbors {
			s, _ := n.(string)
			ids = append(ids, graph.NodeID(s))
		}
		adj[graph.NodeID(node)] = ids
	}
	return adj, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

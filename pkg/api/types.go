package api

import (
	"github.com/dd0wney/cluso-graphclass/pkg/algorithms"
	"github.com/dd0wney/cluso-graphclass/pkg/graph"
)

// API paths
const (
	PathRoot          = "/"
	PathPredict       = "/api/predict-graph-type"
	PathBFS           = "/api/bfs"
	PathDFS           = "/api/dfs"
	PathHealth        = "/health"
	PathHealthLive    = "/health/live"
	PathHealthReady   = "/health/ready"
	PathMetrics       = "/metrics"
	PathGraphQL       = "/graphql"
	RootStatusMessage = "Backend is running"
)

// Request bodies are validation.PredictRequest and
// validation.TraversalRequest; predictions are returned as
// classifier.Prediction.

// TraversalResponse is the body of a BFS or DFS response
type TraversalResponse struct {
	Order []graph.NodeID             `json:"order"`
	Steps []algorithms.TraversalStep `json:"steps,omitempty"`
}

// ErrorResponse represents an error in API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// Package validation checks request payloads and configuration values.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dd0wney/cluso-graphclass/pkg/graph"
	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Default request limits, overridable from config
	DefaultMaxNodes     = 10000
	DefaultMaxEdges     = 100000
	DefaultMaxNodeIDLen = 256
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match the request body
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// PredictRequest is the body of a graph classification request
type PredictRequest struct {
	Edges      []graph.Edge `json:"edges" validate:"required,min=1"`
	NodeCount  int          `json:"node_count" validate:"gt=0"`
	Undirected *bool        `json:"undirected,omitempty"`
}

// TraversalRequest is the body of a BFS or DFS request
type TraversalRequest struct {
	Graph graph.Adjacency `json:"graph" validate:"required"`
	Start graph.NodeID    `json:"start" validate:"required"`
	Trace bool            `json:"trace,omitempty"`
}

// Limits bounds request sizes. Zero fields fall back to the defaults.
type Limits struct {
	MaxNodes int
	MaxEdges int
}

func (l Limits) maxNodes() int { return DefaultOrInt(l.MaxNodes, DefaultMaxNodes) }
func (l Limits) maxEdges() int { return DefaultOrInt(l.MaxEdges, DefaultMaxEdges) }

// ValidatePredictRequest validates a classification request. Endpoint
// ranges are checked by the classifier.
func ValidatePredictRequest(req *PredictRequest, limits Limits) error {
	if req == nil {
		return errors.New("predict request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	if req.NodeCount > limits.maxNodes() {
		return fmt.Errorf("node_count: must not exceed %d, got %d", limits.maxNodes(), req.NodeCount)
	}
	if len(req.Edges) > limits.maxEdges() {
		return fmt.Errorf("edges: must not exceed %d, got %d", limits.maxEdges(), len(req.Edges))
	}
	return nil
}

// ValidateTraversalRequest validates a traversal request
func ValidateTraversalRequest(req *TraversalRequest, limits Limits) error {
	if req == nil {
		return errors.New("traversal request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	if err := ValidateNodeID(req.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	if len(req.Graph) > limits.maxNodes() {
		return fmt.Errorf("graph: must not exceed %d nodes, got %d", limits.maxNodes(), len(req.Graph))
	}
	edges := 0
	for id, neighbors := range req.Graph {
		if err := ValidateNodeID(id); err != nil {
			return fmt.Errorf("graph: %w", err)
		}
		edges += len(neighbors)
	}
	if edges > limits.maxEdges() {
		return fmt.Errorf("graph: must not exceed %d edges, got %d", limits.maxEdges(), edges)
	}
	return nil
}

// ValidateNodeID rejects empty or oversized node identifiers
func ValidateNodeID(id graph.NodeID) error {
	if id == "" {
		return errors.New("node id cannot be empty")
	}
	if len(id) > DefaultMaxNodeIDLen {
		return fmt.Errorf("node id exceeds maximum length of %d characters", DefaultMaxNodeIDLen)
	}
	return nil
}

// formatValidationError converts validator errors to a user-friendly form
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// first error only
	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must contain at least %s item(s)", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

// Package classifier turns an edge list into a graph class prediction
// using a loaded GCN model.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/dd0wney/cluso-graphclass/pkg/algorithms"
	"github.com/dd0wney/cluso-graphclass/pkg/gnn"
	"github.com/dd0wney/cluso-graphclass/pkg/graph"
)

// Direction controls how request edges feed the convolution
type Direction string

const (
	// Directed passes messages only from source to target
	Directed Direction = "directed"
	// Undirected mirrors every edge before the forward pass
	Undirected Direction = "undirected"
)

// ParseDirection validates a direction name. Empty means Directed.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "", Directed:
		return Directed, nil
	case Undirected:
		return Undirected, nil
	}
	return "", fmt.Errorf("unknown edge direction %q", s)
}

// Options configures a Classifier
type Options struct {
	Direction Direction
	MaxNodes  int // 0 for unlimited
	MaxEdges  int // 0 for unlimited
}

// Request is one graph to classify
type Request struct {
	Edges     [][2]int
	NodeCount int
	// Undirected overrides Options.Direction when set
	Undirected *bool
}

// Prediction is the classifier output for one graph
type Prediction struct {
	Label           Label     `json:"label"`
	Confidence      float64   `json:"confidence"`
	Probabilities   []float64 `json:"probabilities"`
	Logits          []float64 `json:"logits"`
	StructuralLabel Label     `json:"structural_label"`
}

// Classifier runs predictions against a shared read-only model.
type Classifier struct {
	model *gnn.Model
	opts  Options
}

// New creates a classifier. The model must produce one logit per label.
func New(model *gnn.Model, opts Options) (*Classifier, error) {
	if model == nil {
		return nil, errors.New("classifier: nil model")
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	if model.OutChannels() != len(labelNames) {
		return nil, fmt.Errorf("classifier: model has %d outputs, want %d", model.OutChannels(), len(labelNames))
	}
	dir, err := ParseDirection(string(opts.Direction))
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	opts.Direction = dir
	return &Classifier{model: model, opts: opts}, nil
}

// Model returns the underlying model
func (c *Classifier) Model() *gnn.Model {
	return c.model
}

// Options returns the effective options
func (c *Classifier) Options() Options {
	return c.opts
}

// Classify validates the request, runs one forward pass and maps the
// logits to a label. Errors are always *Error.
func (c *Classifier) Classify(ctx context.Context, req Request) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, inferenceFailure("request cancelled", err)
	}

	el := graph.NewEdgeList(req.Edges, req.NodeCount)
	if err := el.Validate(graph.Limits{MaxNodes: c.opts.MaxNodes, MaxEdges: c.opts.MaxEdges}); err != nil {
		return nil, invalidInput(inputMessage(err), err)
	}

	input := el
	if c.undirected(req) {
		input = el.Undirected()
	}

	logits, err := c.forward(input)
	if err != nil {
		return nil, err
	}

	probs := gnn.Softmax(logits)
	best := gnn.Argmax(logits)

	return &Prediction{
		Label:           Label(best),
		Confidence:      probs[best],
		Probabilities:   probs,
		Logits:          logits,
		StructuralLabel: labelFromStructure(algorithms.Classify(el)),
	}, nil
}

func (c *Classifier) undirected(req Request) bool {
	if req.Undirected != nil {
		return *req.Undirected
	}
	return c.opts.Direction == Undirected
}

// forward runs the model and converts panics and numeric failures into
// inference errors.
func (c *Classifier) forward(el graph.EdgeList) (logits []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = inferenceFailure("forward pass panicked", fmt.Errorf("%v\n%s", r, debug.Stack()))
		}
	}()

	out, ferr := c.model.Predict(el.NodeCount, el.Pairs())
	if ferr != nil {
		return nil, inferenceFailure("forward pass failed", ferr)
	}
	if len(out) != len(labelNames) {
		return nil, inferenceFailure("unexpected output size", fmt.Errorf("%w: %d logits", gnn.ErrShapeMismatch, len(out)))
	}
	return out, nil
}

func inputMessage(err error) string {
	var re *graph.RangeError
	switch {
	case errors.As(err, &re):
		return re.Error()
	case errors.Is(err, graph.ErrNoEdges):
		return "edges must not be empty"
	case errors.Is(err, graph.ErrNoNodes):
		return "node_count must be positive"
	default:
		return err.Error()
	}
}

package gnn

import "errors"

var (
	// ErrShapeMismatch is returned when tensor dimensions are incompatible
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrNonFinite is returned when a forward pass produces NaN or Inf
	ErrNonFinite = errors.New("non-finite value")
	// ErrInvalidGraph is returned for edge indices outside the node range
	ErrInvalidGraph = errors.New("invalid graph")
	// ErrInvalidWeights is returned when a weights file cannot be decoded
	ErrInvalidWeights = errors.New("invalid model weights")
)

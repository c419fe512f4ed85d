package classifier

import (
	"errors"
	"fmt"
)

// Kind categorizes classifier failures
type Kind int

const (
	// KindInvalidInput means the request was malformed; the caller can fix it
	KindInvalidInput Kind = iota + 1
	// KindInferenceFailure means the forward pass failed on valid input
	KindInferenceFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindInferenceFailure:
		return "inference failure"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against any *Error of the same kind
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInferenceFailure = errors.New("inference failure")
)

// Error is returned by Classify
type Error struct {
	Kind Kind
	Msg  string
	Err  error // underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e's kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrInferenceFailure:
		return e.Kind == KindInferenceFailure
	}
	return false
}

func invalidInput(msg string, cause error) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg, Err: cause}
}

func inferenceFailure(msg string, cause error) *Error {
	return &Error{Kind: KindInferenceFailure, Msg: msg, Err: cause}
}

// KindOf returns the kind of err, or 0 if err is not a classifier error
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

package service

import (
	"errors"

	"github.com/dd0wney/cluso-graphclass/pkg/classifier"
)

// RequestError marks a malformed or out-of-bounds request. Its message is
// safe to show to clients.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// IsClientError reports whether err was caused by the request rather than
// the server.
func IsClientError(err error) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return true
	}
	return classifier.KindOf(err) == classifier.KindInvalidInput
}

// PublicMessage returns the message for err that may be sent to a client.
// Server-side failures collapse to a generic text.
func PublicMessage(err error) string {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Error()
	}
	var ce *classifier.Error
	if errors.As(err, &ce) {
		if ce.Kind == classifier.KindInvalidInput {
			return ce.Msg
		}
		return "inference failed"
	}
	return "internal error"
}

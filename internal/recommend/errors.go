package recommend

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a request-level failure.
type ErrorKind string

const (
	// KindConfig means a required provider is not configured.
	KindConfig ErrorKind = "config"
	// KindUpstream means a first-stage provider call failed.
	KindUpstream ErrorKind = "upstream"
	// KindInvalidRequest means the request failed validation.
	KindInvalidRequest ErrorKind = "invalid_request"
	// KindCanceled means the caller gave up before the ranking finished.
	KindCanceled ErrorKind = "canceled"
)

// ErrNoResults is returned when every candidate was dropped or the
// provider returned none. It is an outcome, not a failure.
var ErrNoResults = errors.New("no spots matched the search conditions")

// Error is a failure of the whole request. Cause is safe to show to users.
type Error struct {
	Kind  ErrorKind
	Cause string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Cause, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, cause string, err error) *Error {
	return &Error{Kind: kind, Cause: cause, Err: err}
}

// KindOf returns the kind of a request error, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

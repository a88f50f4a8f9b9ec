package transport

import (
	"errors"
	"fmt"
)

// ErrQueryFailed is returned when the backend reports a submitted query
// as failed.
var ErrQueryFailed = errors.New("query failed on the backend")

// Error is an opaque transport-level failure. The query core does not
// interpret it; callers decide whether to retry, abort, or report.
type Error struct {
	StatusCode int // HTTP status, if the failure was an HTTP error response
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := "transport error"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("transport error (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

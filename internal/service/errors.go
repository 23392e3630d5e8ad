package service

import (
	"errors"

	"smartnotes-server/internal/domain"
)

// upstreamError wraps an AI provider failure so callers can match it with
// errors.Is(err, domain.ErrUpstream) while the cause stays available for logs.
type upstreamError struct {
	op  string
	err error
}

func (e *upstreamError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *upstreamError) Unwrap() []error {
	return []error{domain.ErrUpstream, e.err}
}

func newUpstreamError(op string, err error) error {
	if err == nil {
		err = errors.New("no result")
	}
	return &upstreamError{op: op, err: err}
}

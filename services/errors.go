package services

import (
	"errors"
	"fmt"
)

// ErrInvalidLLMResponse marks LLM output that is not parseable JSON after
// cleanup. It is always surfaced to the caller, never silently defaulted.
var ErrInvalidLLMResponse = errors.New("invalid JSON response from LLM")

// ValidationError reports malformed client input (bad date, day count over
// the limit, malformed profile).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps a failure of an external collaborator (LLM gateway or
// image search). Not retried; the request fails as a whole.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

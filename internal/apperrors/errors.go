// Package apperrors holds the error taxonomy shared by the pipeline core,
// the application services and the CLI.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery marks malformed AgentQL text or a query naming an unknown stage.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnknownStage is returned when the orchestrator cannot resolve a stage in a sequence.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrUnknownAgent is returned by direct single-stage calls with an unrecognized name.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrNotFound is returned by report lookups when nothing matches.
	ErrNotFound = errors.New("not found")
)

// ExtractionError reports a source payload that could not be normalized.
// The whole source is rejected; SourceKind identifies which one.
type ExtractionError struct {
	SourceKind string
	Err        error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract from %s source: %v", e.SourceKind, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError wraps err with the offending source kind.
func NewExtractionError(sourceKind string, err error) error {
	return &ExtractionError{
		SourceKind: sourceKind,
		Err:        err,
	}
}

// InvalidQuery wraps a validation reason so callers can test it with errors.Is.
func InvalidQuery(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, reason)
}

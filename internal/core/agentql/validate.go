package agentql

import (
	"fmt"

	"github.com/example/finsight/internal/apperrors"
	"github.com/example/finsight/internal/core/pipeline"
)

// Code classifies a validation failure.
type Code string

const (
	CodeOK             Code = ""
	CodeMissingQuery   Code = "MissingQuery"
	CodeMissingExecute Code = "MissingExecute"
	CodeUnknownStage   Code = "UnknownStage"
)

// ValidationResult represents the outcome of validating a query.
type ValidationResult struct {
	Allowed bool
	Code    Code
	Reason  string
}

// Error converts the result to an error wrapping apperrors.ErrInvalidQuery.
func (r ValidationResult) Error() error {
	if r.Allowed {
		return nil
	}
	return apperrors.InvalidQuery(r.Reason)
}

// Validate evaluates whether q can be executed.
// Rules:
// - A QUERY clause must be present
// - EXECUTE must name at least one stage
// - Every stage must be a known stage (first offender is reported)
func Validate(q Query) ValidationResult {
	if !q.hasQuery {
		return ValidationResult{
			Code:   CodeMissingQuery,
			Reason: "Missing QUERY clause",
		}
	}

	if len(q.stageSequence) == 0 {
		return ValidationResult{
			Code:   CodeMissingExecute,
			Reason: "Missing EXECUTE clause",
		}
	}

	for _, stage := range q.stageSequence {
		if !pipeline.IsKnownStage(stage) {
			return ValidationResult{
				Code:   CodeUnknownStage,
				Reason: fmt.Sprintf("Invalid agent: %s", stage),
			}
		}
	}

	return ValidationResult{Allowed: true}
}

// ParseAndValidate parses text and returns the query only if it validates.
func ParseAndValidate(text string) (Query, error) {
	q := Parse(text)
	if err := Validate(q).Error(); err != nil {
		return Query{}, err
	}
	return q, nil
}

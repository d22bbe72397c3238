// Package pipeline contains the pure business logic for orchestrated runs.
// This is part of the Functional Core - no I/O, only pure functions.
package pipeline

import "strings"

// StageID identifies one analytic stage. The set is closed.
type StageID string

const (
	StageExtraction  StageID = "extraction"
	StageMonitoring  StageID = "monitoring"
	StageForecasting StageID = "forecasting"
)

// OrchestrationLabel is the stage label recorded on runs started from a query.
const OrchestrationLabel = "orchestration"

var knownStages = map[StageID]struct{}{
	StageExtraction:  {},
	StageMonitoring:  {},
	StageForecasting: {},
}

// orderedStages is used for help text and listings.
var orderedStages = []StageID{StageExtraction, StageMonitoring, StageForecasting}

// ParseStageID normalizes name and reports whether it names a known stage.
func ParseStageID(name string) (StageID, bool) {
	id := StageID(strings.ToLower(strings.TrimSpace(name)))
	_, ok := knownStages[id]
	return id, ok
}

// IsKnownStage reports whether name (already normalized) is a known stage.
func IsKnownStage(name string) bool {
	_, ok := knownStages[StageID(name)]
	return ok
}

// KnownStages returns the known stage identifiers in pipeline order.
func KnownStages() []StageID {
	out := make([]StageID, len(orderedStages))
	copy(out, orderedStages)
	return out
}

// ResultKey returns the stage-qualified key a stage's output is stored under.
func ResultKey(id StageID) string {
	return string(id) + "_result"
}

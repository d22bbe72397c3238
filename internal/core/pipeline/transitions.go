package pipeline

import (
	"fmt"
	"time"
)

// RunStatus represents the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// InitialRunStatus is the status a run is created with. Runs are created at
// the moment execution starts, so the pending phase is never observed.
func InitialRunStatus() RunStatus {
	return RunRunning
}

// IsTerminal reports whether no further transition is allowed from s.
func (s RunStatus) IsTerminal() bool {
	return s == RunCompleted || s == RunFailed
}

// CanTransition evaluates a run status change.
// Rules:
// - Terminal statuses never change
// - A running run may only become completed or failed
// - A pending run may start running or fail
func CanTransition(from, to RunStatus) GuardResult {
	if from.IsTerminal() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("run already %s", from),
		}
	}

	switch from {
	case RunRunning:
		if to == RunCompleted || to == RunFailed {
			return GuardResult{Allowed: true}
		}
	case RunPending:
		if to == RunRunning || to == RunFailed {
			return GuardResult{Allowed: true}
		}
	}

	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("cannot move run from %s to %s", from, to),
	}
}

// RunTransition captures a terminal transition and its completion timestamp.
type RunTransition struct {
	NewStatus   RunStatus
	CompletedAt *time.Time
}

// ApplyRunTransition returns the transition result for moving a run to status.
// Terminal statuses stamp CompletedAt with now.
func ApplyRunTransition(status RunStatus, now time.Time) RunTransition {
	result := RunTransition{NewStatus: status}
	if status.IsTerminal() {
		result.CompletedAt = &now
	}
	return result
}

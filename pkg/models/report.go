package models

import (
	"time"
)

// State is a step of the deletion workflow
type State string

const (
	StateStart       State = "START"
	StateCheckExists State = "CHECK_EXISTS"
	StateNotFound    State = "NOT_FOUND"
	StateInspect     State = "INSPECT"
	StateBackup      State = "BACKUP"
	StateConfirm     State = "CONFIRM"
	StateTrash       State = "TRASH"
	StateCancelled   State = "CANCELLED"
)

// Terminal reports whether no transition leaves the state
func (s State) Terminal() bool {
	switch s {
	case StateNotFound, StateTrash, StateCancelled:
		return true
	default:
		return false
	}
}

// Report represents the results of one workflow run
type Report struct {
	// RunID identifies the run in diagnostic logs
	RunID string

	Target TargetFile

	// Timing
	StartTime time.Time
	EndTime   time.Time

	// Trace lists every state entered, in order
	Trace []State

	Preview  Result[Preview]
	Analysis Analysis

	// Backup is skipped when backups are disabled
	Backup        Result[string]
	BackupSkipped bool

	// Trash is only attempted after an affirmative confirmation
	Trash          Result[string]
	TrashAttempted bool

	// Warnings collects non-fatal problems such as audit-log write failures
	Warnings []string
}

// Final returns the last state entered
func (r *Report) Final() State {
	if len(r.Trace) == 0 {
		return StateStart
	}
	return r.Trace[len(r.Trace)-1]
}

// Enter appends a state to the trace
func (r *Report) Enter(s State) {
	r.Trace = append(r.Trace, s)
}

// ExitCode returns the process exit code for the final state
func (r *Report) ExitCode() int {
	switch r.Final() {
	case StateTrash:
		if r.Trash.Succeeded() {
			return 0
		}
		return 2
	case StateNotFound:
		return 2
	case StateCancelled:
		return 3
	default:
		return 2
	}
}

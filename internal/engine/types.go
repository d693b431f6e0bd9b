package engine

import "fmt"

// Branch is a resolved parent descriptor. Stale means the name refers to a
// marker-derived historical reference rather than a live branch tip: the
// commit the child sits on used to be this branch's tip before a rewrite.
type Branch struct {
	Name  string
	Stale bool
}

// Children partitions a branch's confirmed children. Current children sit on
// the branch's live tip; orphaned children sit on a stale historical tip.
type Children struct {
	Current  []string
	Orphaned []string
}

// Scope controls which branches an evolve touches.
type Scope string

const (
	// ScopeSelf rebases only the starting branch onto its resolved parent.
	ScopeSelf Scope = "self"
	// ScopeDirects rebases the starting branch and its current,
	// non-orphaned descendants transitively. Orphans are excluded entirely.
	ScopeDirects Scope = "directs"
	// ScopeFull rebases the starting branch and all descendants, current
	// and orphaned, transitively.
	ScopeFull Scope = "full"
)

// ParseScope validates a user-supplied scope string.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeSelf, ScopeDirects, ScopeFull:
		return Scope(s), nil
	}
	return "", fmt.Errorf("invalid scope %q: must be one of self, directs, full", s)
}

// EvolveState is the orchestrator's state machine position.
type EvolveState int

const (
	// EvolveIdle means no evolve is queued or running
	EvolveIdle EvolveState = iota
	// EvolveQueued means the plan has been persisted but no step has run
	EvolveQueued
	// EvolveRunning means steps are being processed
	EvolveRunning
	// EvolvePaused means a rebase conflict halted the operation; the queue
	// markers remain so a later process can resume or abort
	EvolvePaused
	// EvolveDone means the queue drained and all markers were cleared
	EvolveDone
	// EvolveAborted means the user abandoned the operation; completed steps
	// stay completed
	EvolveAborted
)

func (s EvolveState) String() string {
	switch s {
	case EvolveIdle:
		return "idle"
	case EvolveQueued:
		return "queued"
	case EvolveRunning:
		return "running"
	case EvolvePaused:
		return "paused on conflict"
	case EvolveDone:
		return "done"
	case EvolveAborted:
		return "aborted"
	}
	return "unknown"
}

// ResumeAction selects how to leave the paused state.
type ResumeAction int

const (
	// ResumeContinue re-runs the backend's continue-rebase for the paused
	// step and then resumes the queue
	ResumeContinue ResumeAction = iota
	// ResumeAbort aborts the in-flight rebase and clears the queue
	ResumeAbort
)

// Plan is the computed evolve order, shown to the user before any mutation.
// Orphaned records which planned branches were orphaned at planning time.
type Plan struct {
	Root        string
	Scope       Scope
	Branches    []string
	Orphaned    map[string]bool
	RootSkipped bool
}

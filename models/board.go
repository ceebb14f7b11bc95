package models

import "time"

// SourceState is the lifecycle state of the remote note source.
type SourceState int

const (
	SourceIdle SourceState = iota
	SourceFetching
	SourceReady
	SourceFailed
	SourceStopped
)

func (s SourceState) String() string {
	switch s {
	case SourceIdle:
		return "idle"
	case SourceFetching:
		return "fetching"
	case SourceReady:
		return "ready"
	case SourceFailed:
		return "failed"
	case SourceStopped:
		return "stopped"
	}
	return "unknown"
}

// SourceStatus is an immutable view of the remote source.
type SourceStatus struct {
	State     SourceState
	Fetching  bool
	Notes     []Note
	LastErr   error
	Attempt   int
	Exhausted bool
	NextDelay time.Duration
	FetchedAt time.Time
	// FetchSeq counts successful fetches. It changes on every fetch, even
	// when FetchedAt does not.
	FetchSeq uint64
	// Stale is true while Notes come from the local cache rather than a fetch.
	Stale bool
}

// WorkflowState is the state of the note placement workflow.
type WorkflowState int

const (
	WorkflowIdle WorkflowState = iota
	WorkflowComposing
	WorkflowAwaitingPlacement
	WorkflowAwaitingWrite
	WorkflowCommitted
	WorkflowWriteFailed
	WorkflowCancelled
)

func (s WorkflowState) String() string {
	switch s {
	case WorkflowIdle:
		return "idle"
	case WorkflowComposing:
		return "composing"
	case WorkflowAwaitingPlacement:
		return "awaiting placement"
	case WorkflowAwaitingWrite:
		return "awaiting write"
	case WorkflowCommitted:
		return "committed"
	case WorkflowWriteFailed:
		return "write failed"
	case WorkflowCancelled:
		return "cancelled"
	}
	return "unknown"
}

// WorkflowStatus is an immutable view of the placement workflow.
type WorkflowStatus struct {
	State   WorkflowState
	Content string
	Color   Color
	// TempID is the overlay id of the note being written, if any.
	TempID  string
	Receipt Receipt
	LastErr error
}

// PendingKind distinguishes optimistic overlay entries.
type PendingKind int

const (
	PendingCreate PendingKind = iota
	PendingMove
	PendingDelete
)

func (k PendingKind) String() string {
	switch k {
	case PendingCreate:
		return "create"
	case PendingMove:
		return "move"
	case PendingDelete:
		return "delete"
	}
	return "unknown"
}

// PendingInfo describes one overlay entry for display.
type PendingInfo struct {
	ID    string
	Kind  PendingKind
	Since time.Time
	Stale bool
}

// BoardSnapshot is what readers of the board observe after every event.
// Notes is the rendered set: authoritative notes merged with the overlay.
type BoardSnapshot struct {
	Notes    []Note
	Source   SourceStatus
	Workflow WorkflowStatus
	Pending  []PendingInfo
	Viewport Viewport
	Canvas   Size

	// Author is the identity stamped on notes written by this board.
	Author string

	// MutationErr is the reason the last move or delete was rolled back.
	MutationErr error
}

// Package lifecycle contains the pure business rules of the complaint status
// state machine. No I/O: callers load the complaint, ask the guards, then
// persist the TransitionResult.
package lifecycle

import (
	"fmt"
	"time"
)

// Status is a complaint lifecycle stage.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
	StatusEscalated  Status = "Escalated"
)

// allowed lists the legal targets for every status. Escalated -> In Progress
// is the only backward edge.
var allowed = map[Status][]Status{
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusResolved, StatusEscalated},
	StatusResolved:   {StatusClosed},
	StatusEscalated:  {StatusInProgress, StatusClosed},
	StatusClosed:     {},
}

// InitialStatus returns the status of a newly submitted complaint.
func InitialStatus() Status {
	return StatusPending
}

// ParseStatus validates a raw status label.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := allowed[s]; !ok {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Statuses returns every known status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusResolved, StatusEscalated, StatusClosed}
}

// NextStatuses returns the statuses reachable from s in one step.
func NextStatuses(s Status) []Status {
	next := allowed[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether moving from -> to is a legal edge.
func CanTransition(from, to Status) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(s Status) bool {
	return len(allowed[s]) == 0
}

// IsOpen reports whether a complaint in status s still awaits resolution.
func IsOpen(s Status) bool {
	return s != StatusResolved && s != StatusClosed
}

// TransitionResult captures the new status and the side effects the store
// must apply together with it.
type TransitionResult struct {
	NewStatus Status
	UpdatedAt time.Time
	// ResolvedAt is set only when entering Resolved.
	ResolvedAt *time.Time
	// Escalation is set only when entering Escalated.
	Escalation *EscalationEntry
	// AssignedTo is the assignee after the transition.
	AssignedTo *uint
}

// EscalationEntry describes the audit record written on escalation.
type EscalationEntry struct {
	From   *uint
	To     *uint
	Reason string
	At     time.Time
}

// TransitionInput is everything ApplyTransition needs to know.
type TransitionInput struct {
	Current         Status
	Target          Status
	CurrentAssignee *uint
	// NewAssignee optionally reassigns the complaint as part of the move.
	NewAssignee *uint
	Reason      string
	Now         time.Time
}

// ApplyTransition computes the outcome of a status change. The caller must
// check CanTransition (or a guard) first; ApplyTransition returns an error
// for illegal edges as well.
func ApplyTransition(in TransitionInput) (TransitionResult, error) {
	if !CanTransition(in.Current, in.Target) {
		return TransitionResult{}, fmt.Errorf("cannot move complaint from %s to %s", in.Current, in.Target)
	}

	assignee := in.CurrentAssignee
	if in.NewAssignee != nil {
		assignee = in.NewAssignee
	}

	result := TransitionResult{
		NewStatus:  in.Target,
		UpdatedAt:  in.Now,
		AssignedTo: assignee,
	}

	switch in.Target {
	case StatusResolved:
		now := in.Now
		result.ResolvedAt = &now
	case StatusEscalated:
		result.Escalation = &EscalationEntry{
			From:   in.CurrentAssignee,
			To:     assignee,
			Reason: in.Reason,
			At:     in.Now,
		}
	}

	return result, nil
}

package lifecycle

import "fmt"

// Denial classifies why a guard refused an operation.
type Denial int

const (
	DenialNone Denial = iota
	DenialNotFound
	DenialForbidden
	DenialInvalid
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Denial  Denial
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(d Denial, format string, args ...interface{}) GuardResult {
	return GuardResult{Denial: d, Reason: fmt.Sprintf(format, args...)}
}

// TransitionContext provides context for status transition guards.
type TransitionContext struct {
	ComplaintID     uint
	ComplaintExists bool
	Current         Status
	Target          Status
	ActorIsAdmin    bool
	ActorIsOfficer  bool
	ActorIsOwner    bool
	ActorIsAssignee bool
}

// CanTransitionComplaint evaluates whether the actor may move the complaint.
// Rules:
//   - the complaint must exist
//   - admins may move any complaint; officers only complaints assigned to them
//   - the owner may only close, and only a resolved complaint
//   - the edge must be legal
func CanTransitionComplaint(ctx TransitionContext) GuardResult {
	if !ctx.ComplaintExists {
		return deny(DenialNotFound, "complaint %d not found", ctx.ComplaintID)
	}

	switch {
	case ctx.ActorIsAdmin:
	case ctx.ActorIsOfficer && ctx.ActorIsAssignee:
	case ctx.ActorIsOwner:
		if ctx.Target != StatusClosed {
			return deny(DenialForbidden, "complaint owners can only close their complaints")
		}
		if ctx.Current != StatusResolved {
			return deny(DenialInvalid, "only resolved complaints can be closed by their owner, complaint %d is %s", ctx.ComplaintID, ctx.Current)
		}
	default:
		return deny(DenialForbidden, "not allowed to change complaint %d", ctx.ComplaintID)
	}

	if !CanTransition(ctx.Current, ctx.Target) {
		return deny(DenialInvalid, "cannot move complaint from %s to %s", ctx.Current, ctx.Target)
	}
	return allow()
}

// AssignContext provides context for assignment guards.
type AssignContext struct {
	ComplaintID     uint
	ComplaintExists bool
	Current         Status
	ActorIsAdmin    bool
	AssigneeExists  bool
	AssigneeIsStaff bool
}

// CanAssign evaluates whether a complaint can be (re)assigned.
// Rules:
//   - the complaint must exist
//   - only admins assign
//   - the assignee must exist and be an officer or admin
//   - closed complaints cannot be reassigned
func CanAssign(ctx AssignContext) GuardResult {
	if !ctx.ComplaintExists {
		return deny(DenialNotFound, "complaint %d not found", ctx.ComplaintID)
	}
	if !ctx.ActorIsAdmin {
		return deny(DenialForbidden, "only admins can assign complaints")
	}
	if !ctx.AssigneeExists {
		return deny(DenialInvalid, "assignee not found")
	}
	if !ctx.AssigneeIsStaff {
		return deny(DenialInvalid, "assignee must be an officer or admin")
	}
	if IsTerminal(ctx.Current) {
		return deny(DenialInvalid, "complaint %d is %s", ctx.ComplaintID, ctx.Current)
	}
	return allow()
}

// SLAContext provides context for SLA deadline guards.
type SLAContext struct {
	ComplaintID     uint
	ComplaintExists bool
	Current         Status
	ActorIsAdmin    bool
}

// CanSetSLA evaluates whether the SLA deadline of a complaint may change.
// Only admins set deadlines, and never on a closed complaint.
func CanSetSLA(ctx SLAContext) GuardResult {
	if !ctx.ComplaintExists {
		return deny(DenialNotFound, "complaint %d not found", ctx.ComplaintID)
	}
	if !ctx.ActorIsAdmin {
		return deny(DenialForbidden, "only admins can set SLA deadlines")
	}
	if IsTerminal(ctx.Current) {
		return deny(DenialInvalid, "complaint %d is %s", ctx.ComplaintID, ctx.Current)
	}
	return allow()
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/grievance_system/internal/core/lifecycle"
	"github.com/grievance_system/internal/core/priority"
	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/internal/repositories"
)

const maxCategoryLength = 100

// Actor identifies the authenticated caller.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) isAdmin() bool   { return a.Role == models.RoleAdmin }
func (a Actor) isOfficer() bool { return a.Role == models.RoleOfficer }

// SubmitInput is a new complaint as sent by a citizen.
type SubmitInput struct {
	Title       string
	Description string
	Category    string
	Location    *string
}

// TransitionInput asks to move a complaint to another status.
type TransitionInput struct {
	Status string
	Reason string
	// AssignTo optionally reassigns the complaint as part of the move.
	AssignTo *uint
	// Version, when set, must match the stored version.
	Version *uint
}

// ComplaintService defines complaint operations.
type ComplaintService interface {
	Submit(ctx context.Context, userID uint, in SubmitInput) (*models.Complaint, error)
	ListOwn(ctx context.Context, userID uint) ([]models.Complaint, error)
	GetOwn(ctx context.Context, userID, complaintID uint) (*models.Complaint, error)
	Transition(ctx context.Context, actor Actor, complaintID uint, in TransitionInput) (*models.Complaint, error)
	Close(ctx context.Context, actor Actor, complaintID uint) (*models.Complaint, error)
	Assign(ctx context.Context, actor Actor, complaintID, assigneeID uint, version *uint) (*models.Complaint, error)
	SetSLA(ctx context.Context, actor Actor, complaintID uint, deadline *time.Time, version *uint) (*models.Complaint, error)
	List(ctx context.Context, filter models.ComplaintFilter) ([]models.ComplaintWithOwner, int64, error)
	Stats(ctx context.Context) (*models.ComplaintStats, error)
	Escalations(ctx context.Context, complaintID uint) ([]models.EscalationLog, error)
}

type complaintService struct {
	complaints repositories.ComplaintRepository
	users      repositories.UserRepository
	now        func() time.Time
}

// NewComplaintService creates a ComplaintService.
func NewComplaintService(complaints repositories.ComplaintRepository, users repositories.UserRepository) ComplaintService {
	return &complaintService{complaints: complaints, users: users, now: time.Now}
}

// Submit classifies and stores a new complaint. Priority is computed here
// once and never recomputed.
func (s *complaintService) Submit(ctx context.Context, userID uint, in SubmitInput) (*models.Complaint, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" || strings.TrimSpace(in.Category) == "" {
		return nil, ErrMissingComplaintFields
	}
	if len(in.Category) > maxCategoryLength {
		return nil, fmt.Errorf("%w: category is limited to %d characters", ErrFieldTooLong, maxCategoryLength)
	}
	if len(title) > 255 {
		return nil, fmt.Errorf("%w: title is limited to 255 characters", ErrFieldTooLong)
	}

	var location *string
	if in.Location != nil {
		if trimmed := strings.TrimSpace(*in.Location); trimmed != "" {
			location = &trimmed
		}
	}

	now := s.now().UTC()
	complaint := &models.Complaint{
		UserID:      userID,
		Title:       title,
		Description: description,
		// category is stored as given; classification matches it exactly
		Category:  in.Category,
		Location:  location,
		Priority:  priority.Classify(in.Description, in.Category),
		Status:    lifecycle.InitialStatus(),
		CreatedAt: now,
		UpdatedAt: &now,
		Version:   1,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// ListOwn returns the caller's complaints, newest first.
func (s *complaintService) ListOwn(ctx context.Context, userID uint) ([]models.Complaint, error) {
	return s.complaints.ListByUser(ctx, userID)
}

// GetOwn returns a complaint owned by userID. A complaint owned by someone
// else is reported as not found.
func (s *complaintService) GetOwn(ctx context.Context, userID, complaintID uint) (*models.Complaint, error) {
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint == nil || complaint.UserID != userID {
		return nil, ErrComplaintNotFound
	}
	return complaint, nil
}

// Transition moves a complaint along the lifecycle on behalf of actor.
func (s *complaintService) Transition(ctx context.Context, actor Actor, complaintID uint, in TransitionInput) (*models.Complaint, error) {
	target, err := lifecycle.ParseStatus(in.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	guardCtx := lifecycle.TransitionContext{ComplaintID: complaintID, ComplaintExists: complaint != nil, Target: target}
	if complaint != nil {
		guardCtx.Current = complaint.Status
		guardCtx.ActorIsAdmin = actor.isAdmin()
		guardCtx.ActorIsOfficer = actor.isOfficer()
		guardCtx.ActorIsOwner = complaint.UserID == actor.UserID
		guardCtx.ActorIsAssignee = complaint.AssignedTo != nil && *complaint.AssignedTo == actor.UserID
	}
	if result := lifecycle.CanTransitionComplaint(guardCtx); !result.Allowed {
		return nil, guardError(result, ErrInvalidTransition)
	}

	if in.AssignTo != nil {
		if err := s.checkAssignee(ctx, *in.AssignTo); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	outcome, err := lifecycle.ApplyTransition(lifecycle.TransitionInput{
		Current:         complaint.Status,
		Target:          target,
		CurrentAssignee: complaint.AssignedTo,
		NewAssignee:     in.AssignTo,
		Reason:          strings.TrimSpace(in.Reason),
		Now:             now,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	updates := map[string]interface{}{
		"status":      outcome.NewStatus,
		"updated_at":  outcome.UpdatedAt,
		"assigned_to": outcome.AssignedTo,
	}
	if outcome.ResolvedAt != nil {
		updates["resolved_at"] = *outcome.ResolvedAt
	}

	mutation := repositories.ComplaintMutation{
		ComplaintID:     complaintID,
		ExpectedVersion: expectedVersion(complaint, in.Version),
		Updates:         updates,
		Notification: &models.Notification{
			UserID:      complaint.UserID,
			ComplaintID: &complaint.ID,
			Message:     fmt.Sprintf("Your complaint #%d status changed to %s", complaint.ID, outcome.NewStatus),
			CreatedAt:   now,
		},
	}
	if e := outcome.Escalation; e != nil {
		mutation.Escalation = &models.EscalationLog{
			EscalatedFrom: e.From,
			EscalatedTo:   e.To,
			Reason:        e.Reason,
			EscalatedAt:   e.At,
		}
	}

	return s.apply(ctx, mutation)
}

// Close lets the owner (or staff) close a resolved complaint.
func (s *complaintService) Close(ctx context.Context, actor Actor, complaintID uint) (*models.Complaint, error) {
	return s.Transition(ctx, actor, complaintID, TransitionInput{Status: string(lifecycle.StatusClosed)})
}

// Assign sets the handling officer of a complaint.
func (s *complaintService) Assign(ctx context.Context, actor Actor, complaintID, assigneeID uint, version *uint) (*models.Complaint, error) {
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	guardCtx := lifecycle.AssignContext{ComplaintID: complaintID, ComplaintExists: complaint != nil, ActorIsAdmin: actor.isAdmin()}
	if complaint != nil {
		guardCtx.Current = complaint.Status
		assignee, err := s.users.FindByID(ctx, assigneeID)
		if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, err
		}
		guardCtx.AssigneeExists = assignee != nil
		guardCtx.AssigneeIsStaff = assignee != nil && assignee.IsStaff()
	}
	if result := lifecycle.CanAssign(guardCtx); !result.Allowed {
		if result.Denial == lifecycle.DenialInvalid && (!guardCtx.AssigneeExists || !guardCtx.AssigneeIsStaff) {
			return nil, ErrInvalidAssignee
		}
		return nil, guardError(result, ErrInvalidTransition)
	}

	return s.apply(ctx, repositories.ComplaintMutation{
		ComplaintID:     complaintID,
		ExpectedVersion: expectedVersion(complaint, version),
		Updates: map[string]interface{}{
			"assigned_to": assigneeID,
			"updated_at":  s.now().UTC(),
		},
	})
}

// SetSLA sets or, with a nil deadline, clears the SLA deadline.
func (s *complaintService) SetSLA(ctx context.Context, actor Actor, complaintID uint, deadline *time.Time, version *uint) (*models.Complaint, error) {
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	guardCtx := lifecycle.SLAContext{ComplaintID: complaintID, ComplaintExists: complaint != nil, ActorIsAdmin: actor.isAdmin()}
	if complaint != nil {
		guardCtx.Current = complaint.Status
	}
	if result := lifecycle.CanSetSLA(guardCtx); !result.Allowed {
		return nil, guardError(result, ErrInvalidTransition)
	}

	var value interface{}
	if deadline != nil {
		value = deadline.UTC()
	}
	return s.apply(ctx, repositories.ComplaintMutation{
		ComplaintID:     complaintID,
		ExpectedVersion: expectedVersion(complaint, version),
		Updates: map[string]interface{}{
			"sla_deadline": value,
			"updated_at":   s.now().UTC(),
		},
	})
}

// List returns a filtered page of all complaints.
func (s *complaintService) List(ctx context.Context, filter models.ComplaintFilter) ([]models.ComplaintWithOwner, int64, error) {
	if filter.Status != "" {
		if _, err := lifecycle.ParseStatus(filter.Status); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
	}
	if filter.Priority != "" && !priority.IsValid(priority.Level(filter.Priority)) {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidPriority, filter.Priority)
	}
	return s.complaints.List(ctx, filter)
}

// Stats returns the dashboard counters.
func (s *complaintService) Stats(ctx context.Context) (*models.ComplaintStats, error) {
	return s.complaints.Stats(ctx)
}

// Escalations returns the escalation trail of a complaint.
func (s *complaintService) Escalations(ctx context.Context, complaintID uint) ([]models.EscalationLog, error) {
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint == nil {
		return nil, ErrComplaintNotFound
	}
	return s.complaints.ListEscalations(ctx, complaintID)
}

// load returns nil without error when the complaint does not exist.
func (s *complaintService) load(ctx context.Context, complaintID uint) (*models.Complaint, error) {
	complaint, err := s.complaints.FindByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, repositories.ErrComplaintNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return complaint, nil
}

func (s *complaintService) checkAssignee(ctx context.Context, userID uint) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrInvalidAssignee
		}
		return err
	}
	if !user.IsStaff() {
		return ErrInvalidAssignee
	}
	return nil
}

func (s *complaintService) apply(ctx context.Context, mutation repositories.ComplaintMutation) (*models.Complaint, error) {
	updated, err := s.complaints.Apply(ctx, mutation)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrComplaintNotFound):
			return nil, ErrComplaintNotFound
		case errors.Is(err, repositories.ErrVersionConflict):
			return nil, ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func expectedVersion(complaint *models.Complaint, requested *uint) uint {
	if requested != nil {
		return *requested
	}
	return complaint.Version
}

// guardError converts a denied guard result into a service error.
func guardError(result lifecycle.GuardResult, invalid error) error {
	switch result.Denial {
	case lifecycle.DenialNotFound:
		return ErrComplaintNotFound
	case lifecycle.DenialForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, result.Reason)
	default:
		return fmt.Errorf("%w: %s", invalid, result.Reason)
	}
}

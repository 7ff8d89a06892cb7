package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/grievance_system/internal/core/lifecycle"
	"github.com/grievance_system/internal/core/priority"
	"github.com/grievance_system/internal/models"
)

var (
	// ErrComplaintNotFound is returned when no complaint matches.
	ErrComplaintNotFound = errors.New("complaint not found")
	// ErrVersionConflict is returned when the complaint changed since it was read.
	ErrVersionConflict = errors.New("complaint was modified concurrently")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ComplaintMutation is one conditional update of a complaint together with
// the audit rows written in the same transaction.
type ComplaintMutation struct {
	ComplaintID     uint
	ExpectedVersion uint
	// Updates maps column names to new values. version is bumped automatically.
	Updates      map[string]interface{}
	Escalation   *models.EscalationLog
	Notification *models.Notification
}

// ComplaintRepository defines persistence operations for complaints.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id uint) (*models.Complaint, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Complaint, error)
	List(ctx context.Context, filter models.ComplaintFilter) ([]models.ComplaintWithOwner, int64, error)
	Stats(ctx context.Context) (*models.ComplaintStats, error)
	Apply(ctx context.Context, mutation ComplaintMutation) (*models.Complaint, error)
	ListEscalations(ctx context.Context, complaintID uint) ([]models.EscalationLog, error)
}

type gormComplaintRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormComplaintRepository creates a ComplaintRepository backed by gorm.
func NewGormComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &gormComplaintRepository{db: db, now: time.Now}
}

// Create inserts a new complaint.
func (r *gormComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	if complaint.Version == 0 {
		complaint.Version = 1
	}
	return r.db.WithContext(ctx).Create(complaint).Error
}

// FindByID returns the complaint with the given id.
func (r *gormComplaintRepository) FindByID(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.WithContext(ctx).First(&complaint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

// ListByUser returns the complaints owned by userID, newest first.
func (r *gormComplaintRepository) ListByUser(ctx context.Context, userID uint) ([]models.Complaint, error) {
	complaints := []models.Complaint{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

// List returns a page of complaints with their owner's contact details,
// newest first, and the total number matching the filter.
func (r *gormComplaintRepository) List(ctx context.Context, filter models.ComplaintFilter) ([]models.ComplaintWithOwner, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Complaint{})

	if filter.Status != "" {
		query = query.Where("complaints.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("complaints.priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		query = query.Where("LOWER(complaints.category) = LOWER(?)", filter.Category)
	}
	if filter.AssignedTo != nil {
		query = query.Where("complaints.assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Overdue {
		query = r.whereOverdue(query)
	}

	// allow the filtered query to be reused for count and page
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	rows := []models.ComplaintWithOwner{}
	err := query.
		Select("complaints.*, users.name AS user_name, users.email AS user_email, users.phone AS user_phone").
		Joins("JOIN users ON users.id = complaints.user_id").
		Order("complaints.created_at DESC").Order("complaints.id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	now := r.now().UTC()
	for i := range rows {
		rows[i].Overdue = rows[i].IsOverdue(now)
	}
	return rows, total, nil
}

func (r *gormComplaintRepository) whereOverdue(query *gorm.DB) *gorm.DB {
	return query.
		Where("complaints.sla_deadline IS NOT NULL").
		Where("complaints.sla_deadline < ?", r.now().UTC()).
		Where("complaints.status NOT IN ?", []lifecycle.Status{lifecycle.StatusResolved, lifecycle.StatusClosed})
}

type groupCount struct {
	GroupKey   string
	GroupCount int64
}

// Stats computes the dashboard counters.
func (r *gormComplaintRepository) Stats(ctx context.Context) (*models.ComplaintStats, error) {
	db := r.db.WithContext(ctx)
	stats := &models.ComplaintStats{}

	if err := db.Model(&models.User{}).Where("role = ?", models.RoleCitizen).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	var byStatus []groupCount
	if err := db.Model(&models.Complaint{}).Select("status AS group_key, COUNT(*) AS group_count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, g := range byStatus {
		stats.TotalComplaints += g.GroupCount
		switch lifecycle.Status(g.GroupKey) {
		case lifecycle.StatusPending:
			stats.Pending = g.GroupCount
		case lifecycle.StatusInProgress:
			stats.InProgress = g.GroupCount
		case lifecycle.StatusEscalated:
			stats.Escalated = g.GroupCount
		case lifecycle.StatusResolved, lifecycle.StatusClosed:
			stats.Resolved += g.GroupCount
		}
	}

	var byPriority []groupCount
	if err := db.Model(&models.Complaint{}).Select("priority AS group_key, COUNT(*) AS group_count").Group("priority").Scan(&byPriority).Error; err != nil {
		return nil, err
	}
	for _, g := range byPriority {
		switch priority.Level(g.GroupKey) {
		case priority.High:
			stats.HighPriority = g.GroupCount
		case priority.Medium:
			stats.MediumPriority = g.GroupCount
		case priority.Low:
			stats.LowPriority = g.GroupCount
		}
	}

	if err := r.whereOverdue(db.Model(&models.Complaint{})).Count(&stats.Overdue).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// Apply performs a conditional update on (id, version) and writes the
// escalation and notification rows in the same transaction. It returns
// ErrComplaintNotFound or ErrVersionConflict when no row was updated.
func (r *gormComplaintRepository) Apply(ctx context.Context, mutation ComplaintMutation) (*models.Complaint, error) {
	var updated models.Complaint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{}, len(mutation.Updates)+1)
		for column, value := range mutation.Updates {
			updates[column] = value
		}
		updates["version"] = gorm.Expr("version + 1")

		res := tx.Model(&models.Complaint{}).
			Where("id = ? AND version = ?", mutation.ComplaintID, mutation.ExpectedVersion).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Complaint{}).Where("id = ?", mutation.ComplaintID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrComplaintNotFound
			}
			return ErrVersionConflict
		}

		if mutation.Escalation != nil {
			mutation.Escalation.ComplaintID = mutation.ComplaintID
			if err := tx.Create(mutation.Escalation).Error; err != nil {
				return err
			}
		}
		if mutation.Notification != nil {
			if err := tx.Create(mutation.Notification).Error; err != nil {
				return err
			}
		}

		return tx.First(&updated, mutation.ComplaintID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListEscalations returns the escalation trail of a complaint, oldest first.
func (r *gormComplaintRepository) ListEscalations(ctx context.Context, complaintID uint) ([]models.EscalationLog, error) {
	logs := []models.EscalationLog{}
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("escalated_at ASC").Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

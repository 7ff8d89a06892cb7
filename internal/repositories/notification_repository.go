package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/grievance_system/internal/models"
)

// ErrNotificationNotFound is returned when no notification matches for the user.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id, userID uint) (*models.Notification, error)
}

type gormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a NotificationRepository backed by gorm.
func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

// ListByUser returns a user's notifications, newest first.
func (r *gormNotificationRepository) ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	notifications := []models.Notification{}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread counts a user's unread notifications.
func (r *gormNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flags a notification owned by userID as read. Marking an already
// read notification is not an error.
func (r *gormNotificationRepository) MarkRead(ctx context.Context, id, userID uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotificationNotFound
			}
			return err
		}
		if notification.IsRead {
			return nil
		}
		if err := tx.Model(&notification).Update("is_read", true).Error; err != nil {
			return err
		}
		notification.IsRead = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

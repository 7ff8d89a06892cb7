package services

import (
	"context"
	"errors"

	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/internal/repositories"
)

// NotificationService defines the notification inbox operations.
type NotificationService interface {
	List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, userID, notificationID uint) (*models.Notification, error)
}

type notificationService struct {
	repo repositories.NotificationRepository
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(repo repositories.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// List returns the user's notifications and the number still unread.
func (s *notificationService) List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, int64, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uint) (*models.Notification, error) {
	notification, err := s.repo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return notification, nil
}

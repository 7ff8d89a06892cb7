package routes

import (
	"gorm.io/gorm"

	"github.com/grievance_system/internal/auth"
	"github.com/grievance_system/internal/handlers"
	"github.com/grievance_system/internal/repositories"
	"github.com/grievance_system/internal/services"
	"github.com/grievance_system/pkg/logger"
)

// NewHandlers builds the repository, service and handler layers on top of
// one database handle.
func NewHandlers(gormDB *gorm.DB, hasher *auth.PasswordHasher, tokens *auth.TokenManager, lg *logger.Logger) Handlers {
	userRepo := repositories.NewGormUserRepository(gormDB)
	complaintRepo := repositories.NewGormComplaintRepository(gormDB)
	notificationRepo := repositories.NewGormNotificationRepository(gormDB)

	authService := services.NewAuthService(userRepo, hasher, tokens)
	complaintService := services.NewComplaintService(complaintRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo)

	return Handlers{
		Auth:         handlers.NewAuthHandler(authService, lg),
		Complaint:    handlers.NewComplaintHandler(complaintService, lg),
		Admin:        handlers.NewAdminHandler(complaintService, lg),
		Notification: handlers.NewNotificationHandler(notificationService, lg),
		Health:       handlers.NewHealthHandler(gormDB, lg),
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/grievance_system/internal/handlers"
)

// SetupComplaintRoutes registers the citizen endpoints. Every route needs a
// valid token; ownership is checked by the handlers.
func SetupComplaintRoutes(api *gin.RouterGroup, complaints *handlers.ComplaintHandler, notifications *handlers.NotificationHandler, authenticated gin.HandlerFunc) {
	complaintGroup := api.Group("/complaints")
	complaintGroup.Use(authenticated)
	{
		complaintGroup.POST("", complaints.Submit)
		complaintGroup.GET("", complaints.ListOwn)
		complaintGroup.GET("/:id", complaints.GetOwn)
		complaintGroup.PUT("/:id/close", complaints.Close)
	}

	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(authenticated)
	{
		notificationGroup.GET("", notifications.List)
		notificationGroup.PUT("/:id/read", notifications.MarkRead)
	}
}

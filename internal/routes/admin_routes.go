package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/grievance_system/internal/auth"
	"github.com/grievance_system/internal/handlers"
	"github.com/grievance_system/internal/models"
)

// SetupAdminRoutes registers the staff endpoints. The role check runs before
// any lookup so that citizens get 403 regardless of the resource.
func SetupAdminRoutes(api *gin.RouterGroup, h *handlers.AdminHandler, authenticated gin.HandlerFunc) {
	staff := api.Group("/admin")
	staff.Use(authenticated, auth.RequireRoles(models.RoleAdmin, models.RoleOfficer))
	{
		staff.GET("/complaints", h.ListComplaints)
		staff.GET("/stats", h.Stats)
		staff.PUT("/complaints/:id/status", h.UpdateStatus)
		staff.GET("/complaints/:id/escalations", h.Escalations)
	}

	adminOnly := staff.Group("")
	adminOnly.Use(auth.RequireRoles(models.RoleAdmin))
	{
		adminOnly.PUT("/complaints/:id/assign", h.Assign)
		adminOnly.PUT("/complaints/:id/sla", h.SetSLA)
	}
}

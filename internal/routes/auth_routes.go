package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/grievance_system/internal/handlers"
)

// SetupAuthRoutes registers registration, login and logout.
func SetupAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, authenticated gin.HandlerFunc) {
	// public
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/admin/login", h.AdminLogin)

	// protected
	api.POST("/logout", authenticated, h.Logout)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/grievance_system/pkg/db"
	"github.com/grievance_system/pkg/logger"
	"github.com/grievance_system/pkg/utils"
)

// HealthHandler reports whether the server and its database are up.
type HealthHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(gormDB *gorm.DB, lg *logger.Logger) *HealthHandler {
	return &HealthHandler{db: gormDB, logger: lg}
}

// HealthResponse is the health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} utils.APIErrorResponse "Database unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if err := db.Ping(c.Request.Context(), h.db); err != nil {
		h.logger.Error("health check failed: %v", err)
		utils.RespondServiceUnavailableError(c, "Database unreachable")
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Message: "Server is running"})
}

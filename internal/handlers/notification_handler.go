package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/internal/services"
	"github.com/grievance_system/pkg/logger"
	"github.com/grievance_system/pkg/utils"
)

// NotificationHandler serves the caller's notification inbox.
type NotificationHandler struct {
	service services.NotificationService
	logger  *logger.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(service services.NotificationService, lg *logger.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, logger: lg}
}

// NotificationListData is the inbox listing.
type NotificationListData struct {
	Items       []models.Notification `json:"items"`
	UnreadCount int64                 `json:"unread_count"`
}

// List godoc
// @Summary List my notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} utils.SuccessResponse{data=NotificationListData}
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 500 {object} utils.APIErrorResponse "Failed to fetch notifications"
// @Router /notifications [get]
// @Security BearerAuth
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var query struct {
		Unread bool `form:"unread"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	items, unread, err := h.service.List(c.Request.Context(), actor.UserID, query.Unread)
	if err != nil {
		respondUnexpected(c, h.logger, err, "Failed to fetch notifications")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, NotificationListData{Items: items, UnreadCount: unread}, "")
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} utils.SuccessResponse{data=models.Notification}
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 404 {object} utils.APIErrorResponse "Notification not found"
// @Failure 500 {object} utils.APIErrorResponse "Failed to update notification"
// @Router /notifications/{id}/read [put]
// @Security BearerAuth
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	notification, err := h.service.MarkRead(c.Request.Context(), actor.UserID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			utils.RespondNotFoundError(c, "Notification")
			return
		}
		respondUnexpected(c, h.logger, err, "Failed to update notification")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, notification, "")
}

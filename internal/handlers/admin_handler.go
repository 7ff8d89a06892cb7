package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/internal/services"
	"github.com/grievance_system/pkg/logger"
	"github.com/grievance_system/pkg/utils"
)

// AdminHandler serves the staff endpoints.
type AdminHandler struct {
	service services.ComplaintService
	logger  *logger.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(service services.ComplaintService, lg *logger.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: lg}
}

// PagedComplaintsData is a page of complaints with owner details.
type PagedComplaintsData struct {
	Items      []models.ComplaintWithOwner `json:"items"`
	Pagination PaginationInfo              `json:"pagination"`
}

// UpdateStatusRequest moves a complaint to another status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason,omitempty"`
	// AssignTo optionally reassigns the complaint, typically when escalating.
	AssignTo *uint `json:"assign_to,omitempty"`
	Version  *uint `json:"version,omitempty"`
}

// AssignRequest sets the handling officer.
type AssignRequest struct {
	AssignedTo uint  `json:"assigned_to" binding:"required"`
	Version    *uint `json:"version,omitempty"`
}

// SLARequest sets or clears the SLA deadline. A null or empty deadline
// clears it.
type SLARequest struct {
	SLADeadline *string `json:"sla_deadline"`
	Version     *uint   `json:"version,omitempty"`
}

// ListComplaints godoc
// @Summary List all complaints
// @Description Staff view of every complaint with owner contact details, newest first
// @Tags admin
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Param status query string false "Status filter (Pending, In Progress, Resolved, Closed, Escalated)"
// @Param priority query string false "Priority filter (High, Medium, Low)"
// @Param category query string false "Category filter (case insensitive)"
// @Param assigned_to query int false "Assignee user ID"
// @Param overdue query bool false "Only complaints past their SLA deadline"
// @Success 200 {object} utils.SuccessResponse{data=PagedComplaintsData}
// @Failure 400 {object} utils.APIErrorResponse "Invalid filter"
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 403 {object} utils.APIErrorResponse "Insufficient permissions"
// @Failure 500 {object} utils.APIErrorResponse "Failed to fetch complaints"
// @Router /admin/complaints [get]
// @Security BearerAuth
func (h *AdminHandler) ListComplaints(c *gin.Context) {
	type listComplaintsQuery struct {
		Page       int    `form:"page,default=1" binding:"min=1"`
		Limit      int    `form:"limit,default=10" binding:"min=1,max=100"`
		Status     string `form:"status"`
		Priority   string `form:"priority"`
		Category   string `form:"category"`
		AssignedTo *uint  `form:"assigned_to"`
		Overdue    bool   `form:"overdue"`
	}

	var query listComplaintsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	items, total, err := h.service.List(c.Request.Context(), models.ComplaintFilter{
		Status:     query.Status,
		Priority:   query.Priority,
		Category:   strings.TrimSpace(query.Category),
		AssignedTo: query.AssignedTo,
		Overdue:    query.Overdue,
		Page:       query.Page,
		Limit:      query.Limit,
	})
	if err != nil {
		respondComplaintError(c, h.logger, err, "Failed to fetch complaints")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, PagedComplaintsData{
		Items:      items,
		Pagination: newPaginationInfo(total, query.Page, query.Limit),
	}, "")
}

// Stats godoc
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=models.ComplaintStats}
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 403 {object} utils.APIErrorResponse "Insufficient permissions"
// @Failure 500 {object} utils.APIErrorResponse "Failed to fetch statistics"
// @Router /admin/stats [get]
// @Security BearerAuth
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondUnexpected(c, h.logger, err, "Failed to fetch statistics")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, stats, "")
}

// UpdateStatus godoc
// @Summary Change complaint status
// @Description Moves a complaint along its lifecycle. Officers may only move complaints assigned to them.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Complaint ID"
// @Param payload body UpdateStatusRequest true "Target status"
// @Success 200 {object} utils.SuccessResponse{data=models.Complaint} "Status updated"
// @Failure 400 {object} utils.APIErrorResponse "Unknown status or invalid assignee"
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 403 {object} utils.APIErrorResponse "Insufficient permissions"
// @Failure 404 {object} utils.APIErrorResponse "Complaint not found"
// @Failure 409 {object} utils.APIErrorResponse "Illegal transition or concurrent modification"
// @Failure 500 {object} utils.APIErrorResponse "Failed to update complaint"
// @Router /admin/complaints/{id}/status [put]
// @Security BearerAuth
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	complaint, err := h.service.Transition(c.Request.Context(), actor, id, services.TransitionInput{
		Status:   req.Status,
		Reason:   req.Reason,
		AssignTo: req.AssignTo,
		Version:  req.Version,
	})
	if err != nil {
		respondComplaintError(c, h.logger, err, "Failed to update complaint")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, complaint, "Status updated")
}

// Assign godoc
// @Summary Assign a complaint
// @Description Sets the officer handling a complaint. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Complaint ID"
// @Param payload body AssignRequest true "Assignee"
// @Success 200 {object} utils.SuccessResponse{data=models.Complaint} "Complaint assigned"
// @Failure 400 {object} utils.APIErrorResponse "Assignee must be an existing officer or admin"
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 403 {object} utils.APIErrorResponse "Insufficient permissions"
// @Failure 404 {object} utils.APIErrorResponse "Complaint not found"
// @Failure 409 {object} utils.APIErrorResponse "Complaint closed or modified concurrently"
// @Failure 500 {object} utils.APIErrorResponse "Failed to assign complaint"
// @Router /admin/complaints/{id}/assign [put]
// @Security BearerAuth
func (h *AdminHandler) Assign(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	complaint, err := h.service.Assign(c.Request.Context(), actor, id, req.AssignedTo, req.Version)
	if err != nil {
		respondComplaintError(c, h.logger, err, "Failed to assign complaint")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, complaint, "Complaint assigned")
}

// SetSLA godoc
// @Summary Set or clear the SLA deadline
// @Description Accepts RFC 3339 timestamps or YYYY-MM-DD (end of day, UTC). Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Complaint ID"
// @Param payload body SLARequest true "Deadline"
// @Success 200 {object} utils.SuccessResponse{data=models.Complaint} "SLA deadline updated"
// @Failure 400 {object} utils.APIErrorResponse "Invalid date"
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 403 {object} utils.APIErrorResponse "Insufficient permissions"
// @Failure 404 {object} utils.APIErrorResponse "Complaint not found"
// @Failure 409 {object} utils.APIErrorResponse "Complaint closed or modified concurrently"
// @Failure 500 {object} utils.APIErrorResponse "Failed to update SLA deadline"
// @Router /admin/complaints/{id}/sla [put]
// @Security BearerAuth
func (h *AdminHandler) SetSLA(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SLARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	var deadline *time.Time
	if req.SLADeadline != nil && strings.TrimSpace(*req.SLADeadline) != "" {
		parsed, err := utils.ParseDeadline(*req.SLADeadline)
		if err != nil {
			utils.RespondBadRequestError(c, err.Error())
			return
		}
		deadline = &parsed
	}

	complaint, err := h.service.SetSLA(c.Request.Context(), actor, id, deadline, req.Version)
	if err != nil {
		respondComplaintError(c, h.logger, err, "Failed to update SLA deadline")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, complaint, "SLA deadline updated")
}

// Escalations godoc
// @Summary Escalation history of a complaint
// @Tags admin
// @Produce json
// @Param id path int true "Complaint ID"
// @Success 200 {object} utils.SuccessResponse{data=[]models.EscalationLog}
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 403 {object} utils.APIErrorResponse "Insufficient permissions"
// @Failure 404 {object} utils.APIErrorResponse "Complaint not found"
// @Failure 500 {object} utils.APIErrorResponse "Failed to fetch escalations"
// @Router /admin/complaints/{id}/escalations [get]
// @Security BearerAuth
func (h *AdminHandler) Escalations(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	logs, err := h.service.Escalations(c.Request.Context(), id)
	if err != nil {
		respondComplaintError(c, h.logger, err, "Failed to fetch escalations")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, logs, "")
}

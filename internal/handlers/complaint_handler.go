package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grievance_system/internal/core/priority"
	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/internal/services"
	"github.com/grievance_system/pkg/logger"
	"github.com/grievance_system/pkg/utils"
)

// ComplaintHandler serves the citizen complaint endpoints.
type ComplaintHandler struct {
	service services.ComplaintService
	logger  *logger.Logger
}

// NewComplaintHandler creates a ComplaintHandler.
func NewComplaintHandler(service services.ComplaintService, lg *logger.Logger) *ComplaintHandler {
	return &ComplaintHandler{service: service, logger: lg}
}

// SubmitComplaintRequest is the complaint submission payload.
type SubmitComplaintRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description" binding:"required"`
	Category    string  `json:"category" binding:"required,max=100"`
	Location    *string `json:"location,omitempty" binding:"omitempty,max=255"`
}

// SubmitComplaintResponse is returned after a successful submission.
type SubmitComplaintResponse struct {
	ComplaintID uint              `json:"complaint_id"`
	Priority    priority.Level    `json:"priority"`
	Complaint   *models.Complaint `json:"complaint"`
}

// ComplaintListData wraps a complaint list.
type ComplaintListData struct {
	Complaints []models.Complaint `json:"complaints"`
}

// Submit godoc
// @Summary Submit a complaint
// @Description Stores a complaint for the caller. Priority is assigned from the description and category.
// @Tags complaints
// @Accept json
// @Produce json
// @Param complaint body SubmitComplaintRequest true "Complaint"
// @Success 201 {object} utils.SuccessResponse{data=SubmitComplaintResponse} "Complaint submitted successfully"
// @Failure 400 {object} utils.APIErrorResponse "Title, description, and category are required"
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 500 {object} utils.APIErrorResponse "Failed to submit complaint"
// @Router /complaints [post]
// @Security BearerAuth
func (h *ComplaintHandler) Submit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req SubmitComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	complaint, err := h.service.Submit(c.Request.Context(), actor.UserID, services.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
	})
	if err != nil {
		respondComplaintError(c, h.logger, err, "Failed to submit complaint")
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, SubmitComplaintResponse{
		ComplaintID: complaint.ID,
		Priority:    complaint.Priority,
		Complaint:   complaint,
	}, "Complaint submitted successfully")
}

// ListOwn godoc
// @Summary List my complaints
// @Description Returns the caller's complaints, newest first
// @Tags complaints
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=ComplaintListData}
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 500 {object} utils.APIErrorResponse "Failed to fetch complaints"
// @Router /complaints [get]
// @Security BearerAuth
func (h *ComplaintHandler) ListOwn(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	complaints, err := h.service.ListOwn(c.Request.Context(), actor.UserID)
	if err != nil {
		respondUnexpected(c, h.logger, err, "Failed to fetch complaints")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, ComplaintListData{Complaints: complaints}, "")
}

// GetOwn godoc
// @Summary Get one of my complaints
// @Tags complaints
// @Produce json
// @Param id path int true "Complaint ID"
// @Success 200 {object} utils.SuccessResponse{data=models.Complaint}
// @Failure 400 {object} utils.APIErrorResponse "Invalid id"
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 404 {object} utils.APIErrorResponse "Complaint not found"
// @Failure 500 {object} utils.APIErrorResponse "Failed to fetch complaint"
// @Router /complaints/{id} [get]
// @Security BearerAuth
func (h *ComplaintHandler) GetOwn(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	complaint, err := h.service.GetOwn(c.Request.Context(), actor.UserID, id)
	if err != nil {
		respondComplaintError(c, h.logger, err, "Failed to fetch complaint")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, complaint, "")
}

// Close godoc
// @Summary Close my resolved complaint
// @Description The owner confirms a resolved complaint, moving it to Closed
// @Tags complaints
// @Produce json
// @Param id path int true "Complaint ID"
// @Success 200 {object} utils.SuccessResponse{data=models.Complaint} "Complaint closed"
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 404 {object} utils.APIErrorResponse "Complaint not found"
// @Failure 409 {object} utils.APIErrorResponse "Complaint is not in a closable state"
// @Failure 500 {object} utils.APIErrorResponse "Failed to close complaint"
// @Router /complaints/{id}/close [put]
// @Security BearerAuth
func (h *ComplaintHandler) Close(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// the owner route only ever acts as the owner, whatever the caller's role
	complaint, err := h.service.GetOwn(c.Request.Context(), actor.UserID, id)
	if err != nil {
		respondComplaintError(c, h.logger, err, "Failed to close complaint")
		return
	}

	closed, err := h.service.Close(c.Request.Context(), services.Actor{UserID: actor.UserID, Role: models.RoleCitizen}, complaint.ID)
	if err != nil {
		respondComplaintError(c, h.logger, err, "Failed to close complaint")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, closed, "Complaint closed")
}

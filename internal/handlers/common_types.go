package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grievance_system/internal/auth"
	"github.com/grievance_system/internal/services"
	"github.com/grievance_system/pkg/logger"
	"github.com/grievance_system/pkg/utils"
)

// PaginationInfo is the common pagination block of list responses.
type PaginationInfo struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
}

func newPaginationInfo(total int64, page, limit int) PaginationInfo {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return PaginationInfo{TotalItems: total, TotalPages: totalPages, CurrentPage: page, PageSize: limit}
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondValidationError(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentActor returns the authenticated caller. It answers 401 itself when
// the context carries no user.
func currentActor(c *gin.Context) (services.Actor, bool) {
	id, ok := auth.CurrentUserID(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return services.Actor{}, false
	}
	return services.Actor{UserID: id, Role: auth.CurrentRole(c)}, true
}

// respondComplaintError maps complaint service errors to responses. Missing
// and forbidden complaints share one 404.
func respondComplaintError(c *gin.Context, lg *logger.Logger, err error, failureMessage string) {
	switch {
	case services.IsValidationError(err):
		utils.RespondBadRequestError(c, err.Error())
	case errors.Is(err, services.ErrComplaintNotFound), errors.Is(err, services.ErrForbidden):
		utils.RespondNotFoundError(c, "Complaint")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondConflictError(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.RespondConflictError(c, services.ErrConflict.Error())
	default:
		lg.Error("%s: %v", failureMessage, err)
		utils.RespondInternalServerError(c, failureMessage)
	}
}

// respondUnexpected logs err and answers with a generic 500.
func respondUnexpected(c *gin.Context, lg *logger.Logger, err error, failureMessage string) {
	lg.Error("%s: %v", failureMessage, err)
	utils.RespondInternalServerError(c, failureMessage)
}

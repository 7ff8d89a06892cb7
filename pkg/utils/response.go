package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Status  string      `json:"status"`            // always "success"
	Message string      `json:"message,omitempty"` // optional success message
	Data    interface{} `json:"data,omitempty"`
}

// RespondJSON sends payload as JSON with the given status.
func RespondJSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// RespondSuccess sends a standard success envelope.
func RespondSuccess(c *gin.Context, status int, data interface{}, message string) {
	response := SuccessResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	if message == "" && data == nil {
		response.Message = "Operation successful"
	}
	RespondJSON(c, status, response)
}

// APIErrorResponse is the error envelope: { "error": "...", "details": ... }.
// details may be a string or a structured value.
type APIErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondAPIError aborts the request with an error envelope.
func RespondAPIError(c *gin.Context, status int, errorMessage string, details interface{}) {
	response := APIErrorResponse{
		Error: errorMessage,
	}
	if details != nil {
		response.Details = details
	}
	c.AbortWithStatusJSON(status, response)
}

// RespondValidationError sends 400 for malformed or missing input.
// details is usually err.Error().
func RespondValidationError(c *gin.Context, details interface{}) {
	RespondAPIError(c, http.StatusBadRequest, "Invalid request parameters", details)
}

// RespondBadRequestError sends 400 with a caller-facing message.
func RespondBadRequestError(c *gin.Context, message string) {
	RespondAPIError(c, http.StatusBadRequest, message, nil)
}

// RespondUnauthorizedError sends 401.
func RespondUnauthorizedError(c *gin.Context, message ...string) {
	errMsg := "Authentication required or token invalid/expired"
	if len(message) > 0 && message[0] != "" {
		errMsg = message[0]
	}
	RespondAPIError(c, http.StatusUnauthorized, errMsg, nil)
}

// RespondForbiddenError sends 403.
func RespondForbiddenError(c *gin.Context, message ...string) {
	errMsg := "Insufficient permissions"
	if len(message) > 0 && message[0] != "" {
		errMsg = message[0]
	}
	RespondAPIError(c, http.StatusForbidden, errMsg, nil)
}

// RespondNotFoundError sends 404 for the named resource.
func RespondNotFoundError(c *gin.Context, resourceName string) {
	RespondAPIError(c, http.StatusNotFound, resourceName+" not found", nil)
}

// RespondInternalServerError sends 500. Callers log the cause themselves; the
// message returned to the client stays generic.
func RespondInternalServerError(c *gin.Context, message string, errDetails ...string) {
	var details interface{}
	if len(errDetails) > 0 {
		details = errDetails[0]
	}
	RespondAPIError(c, http.StatusInternalServerError, message, details)
}

// RespondConflictError sends 409.
func RespondConflictError(c *gin.Context, message string, details ...string) {
	var detailContent interface{}
	if len(details) > 0 {
		detailContent = details[0]
	}
	RespondAPIError(c, http.StatusConflict, message, detailContent)
}

// RespondServiceUnavailableError sends 503.
func RespondServiceUnavailableError(c *gin.Context, message string) {
	RespondAPIError(c, http.StatusServiceUnavailable, message, nil)
}

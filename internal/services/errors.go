package services

import "errors"

// Validation errors. Their messages are shown to the caller as is.
var (
	ErrMissingRegistrationFields = errors.New("name, email, phone and password are required")
	ErrMissingCredentials        = errors.New("email and password are required")
	ErrInvalidEmail              = errors.New("invalid email format")
	ErrInvalidPhone              = errors.New("invalid phone number")
	ErrMissingComplaintFields    = errors.New("title, description, and category are required")
	ErrFieldTooLong              = errors.New("field exceeds maximum length")
	ErrInvalidStatus             = errors.New("invalid status")
	ErrInvalidPriority           = errors.New("invalid priority")
	ErrInvalidAssignee           = errors.New("assignee must be an existing officer or admin")
	ErrInvalidRole               = errors.New("role must be citizen, officer or admin")
)

// Domain errors mapped to non-400 responses.
var (
	// ErrEmailTaken is returned on registration with a known email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is the single answer for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrComplaintNotFound covers missing complaints and complaints the caller may not see.
	ErrComplaintNotFound = errors.New("complaint not found")
	// ErrForbidden is returned when the actor may not change the complaint.
	ErrForbidden = errors.New("not allowed to modify this complaint")
	// ErrInvalidTransition is returned for an illegal lifecycle move.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflict is returned when the complaint changed since it was read.
	ErrConflict = errors.New("complaint was modified by another request, reload and retry")
	// ErrNotificationNotFound is returned for unknown or foreign notifications.
	ErrNotificationNotFound = errors.New("notification not found")
)

var validationErrors = []error{
	ErrMissingRegistrationFields,
	ErrMissingCredentials,
	ErrInvalidEmail,
	ErrInvalidPhone,
	ErrMissingComplaintFields,
	ErrFieldTooLong,
	ErrInvalidStatus,
	ErrInvalidPriority,
	ErrInvalidAssignee,
	ErrInvalidRole,
}

// IsValidationError reports whether err stems from bad caller input.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when the caller's identity could not be
	// established.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrForbidden is returned when the caller is known but not permitted
	// to perform the operation (inactive account, missing role, or not the
	// resource owner).
	ErrForbidden = errors.New("forbidden operation")

	// ErrSelfDelete is returned when an administrator attempts to delete
	// their own account. Reported as a bad request, not forbidden.
	ErrSelfDelete = errors.New("cannot delete own account")
)

// ValidationError carries the field that failed validation alongside the
// underlying sentinel, so the API layer can build per-field error details.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the wrapped sentinel to support errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

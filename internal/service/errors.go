// Package service provides application-level services for managing users and
// items on top of the store layer.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrInvalidCredentials indicates that authentication failed. It is
	// returned for an unknown username and for a wrong password alike, so
	// callers cannot tell which accounts exist.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInactiveUser indicates the account exists but has been deactivated.
	// API layer should map this to HTTP 403 Forbidden.
	ErrInactiveUser = errors.New("inactive user")
)

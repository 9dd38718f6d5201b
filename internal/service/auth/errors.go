package auth

import "errors"

// Common authentication service errors.
var (
	// ErrInvalidToken covers every token validation failure: expired,
	// malformed, and tampered tokens are deliberately indistinguishable to
	// the caller.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")
)

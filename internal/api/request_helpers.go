package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/api/shared"
	"github.com/phrazzld/stash-api/internal/domain"
)

// currentUser extracts the authenticated user placed in the request context
// by the authentication middleware. A missing user on a protected route
// means the middleware chain is mis-wired, so it is handled as unauthorized
// rather than panicking.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := shared.CurrentUser(r.Context())
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return nil, false
	}
	return user, true
}

// getPathUUID extracts and parses a UUID path parameter. Returns a
// validation error when the parameter is missing or malformed.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// pageParams reads skip/limit query parameters with the API's defaults.
// Malformed or negative values fall back to the default rather than erroring.
func pageParams(r *http.Request) (skip, limit int) {
	skip = intQueryParam(r, "skip", 0)
	limit = intQueryParam(r, "limit", 100)
	return skip, limit
}

func intQueryParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

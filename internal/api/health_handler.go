package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/stash-api/internal/api/shared"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a new HealthHandler reporting the given build
// version.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Health handles GET /health. Always 200 while the process is serving; it
// does not probe downstream dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Timestamp: time.Now().UTC(),
	})
}

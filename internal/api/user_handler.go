package api

import (
	"net/http"

	"github.com/phrazzld/stash-api/internal/api/shared"
	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/phrazzld/stash-api/internal/service"
)

// UserHandler handles the self-service profile endpoints and the superuser
// management surface.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// UpdateMe handles PUT /users/me. Omitted fields are untouched; a supplied
// password is re-hashed by the service.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	updated, err := h.userService.UpdateSelf(r.Context(), user.ID, service.UserUpdate{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
		IsActive: req.IsActive,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(updated))
}

// List handles GET /users (superuser only).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r)

	users, err := h.userService.List(r.Context(), skip, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserListResponse(users))
}

// Get handles GET /users/{userID} (superuser only).
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// Delete handles DELETE /users/{userID} (superuser only). Administrators
// cannot delete their own account; that is a bad request, not a forbidden.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if id == admin.ID {
		HandleAPIError(w, r, domain.ErrSelfDelete, "")
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

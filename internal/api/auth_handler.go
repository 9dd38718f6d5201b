package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/stash-api/internal/api/shared"
	"github.com/phrazzld/stash-api/internal/service"
	"github.com/phrazzld/stash-api/internal/service/auth"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	userService service.UserService
	jwtService  auth.JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService service.UserService, jwtService auth.JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

// Register handles POST /auth/register.
// Duplicate email or username responds 400, not 409; clients treat both the
// same way and the simpler taxonomy is deliberate.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegistrationInput{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewUserResponse(user))
}

// Login handles POST /auth/login. Credentials arrive form-encoded under the
// OAuth2 password-flow field names (username, password); the response is a
// bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	missing := make([]FieldError, 0, 2)
	if username == "" {
		missing = append(missing, FieldError{Field: "username", Message: "field is required"})
	}
	if password == "" {
		missing = append(missing, FieldError{Field: "password", Message: "field is required"})
	}
	if len(missing) > 0 {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, missing)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				GetSafeErrorMessage(err), err, shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	if !user.IsActive {
		HandleAPIError(w, r, service.ErrInactiveUser, "")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

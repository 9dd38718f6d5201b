package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/stash-api/internal/api/shared"
	"github.com/phrazzld/stash-api/internal/redact"
	"github.com/phrazzld/stash-api/internal/service/auth"
	"github.com/phrazzld/stash-api/internal/store"
)

// AuthMiddleware provides JWT authentication for routes. Beyond validating
// the token it loads the subject's account, so downstream handlers always
// see a live *domain.User and deactivated accounts are cut off at the door.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// Authenticate validates the bearer token, loads the user it names, and
// attaches the user to the request context. Responses: 401 for a missing or
// invalid token and for a token whose user no longer exists, 403 for a
// deactivated account.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			slog.Error("failed to validate token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				// Valid signature for an account that no longer exists.
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			slog.Error("failed to load authenticated user", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		if !user.IsActive {
			shared.RespondWithError(w, r, http.StatusForbidden, "Inactive user")
			return
		}

		ctx := shared.WithCurrentUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSuperuser gates a route to superusers. It must run after
// Authenticate in the middleware chain.
func (m *AuthMiddleware) RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := shared.CurrentUser(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Not authenticated")
			return
		}

		if !user.IsSuperuser {
			shared.RespondWithError(w, r, http.StatusForbidden, "Not enough privileges")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractBearerToken pulls the compact token out of the Authorization
// header. The scheme comparison is case-insensitive per RFC 7235.
func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", auth.ErrMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", auth.ErrMissingToken
	}

	return parts[1], nil
}

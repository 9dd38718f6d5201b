package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/api/shared"
	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRouter mounts the user handler the way the real router does.
func userRouter(handler *UserHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/users/me", handler.Me)
	r.Put("/users/me", handler.UpdateMe)
	r.Get("/users", handler.List)
	r.Get("/users/{userID}", handler.Get)
	r.Delete("/users/{userID}", handler.Delete)
	return r
}

func doAs(t *testing.T, router http.Handler, user *domain.User, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if user != nil {
		req = req.WithContext(shared.WithCurrentUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUserHandlerMe(t *testing.T) {
	t.Parallel()

	t.Run("returns the authenticated user", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		user := seedUser(t, svc, "alice", false)
		router := userRouter(NewUserHandler(svc))

		rec := doAs(t, router, user, http.MethodGet, "/users/me", "")

		require.Equal(t, http.StatusOK, rec.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.ID, resp.ID)
		assert.Equal(t, "alice", resp.Username)
	})

	t.Run("no user in context is 401", func(t *testing.T) {
		t.Parallel()

		router := userRouter(NewUserHandler(newFakeUserService()))

		rec := doAs(t, router, nil, http.MethodGet, "/users/me", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserHandlerUpdateMe(t *testing.T) {
	t.Parallel()

	t.Run("applies only the supplied fields", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		user := seedUser(t, svc, "alice", false)
		router := userRouter(NewUserHandler(svc))

		rec := doAs(t, router, user, http.MethodPut, "/users/me", `{"full_name":"Alice B."}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Alice B.", resp.FullName)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, "alice@example.com", resp.Email)
	})

	t.Run("password change re-hashes", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		user := seedUser(t, svc, "alice", false)
		router := userRouter(NewUserHandler(svc))

		rec := doAs(t, router, user, http.MethodPut, "/users/me", `{"password":"brand-new-password"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		stored, err := svc.users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "brand-new-password", stored.HashedPassword)
	})

	t.Run("user can deactivate their own account", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		user := seedUser(t, svc, "alice", false)
		router := userRouter(NewUserHandler(svc))

		rec := doAs(t, router, user, http.MethodPut, "/users/me", `{"is_active":false}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.IsActive)

		stored, err := svc.users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsActive)
		assert.Equal(t, "alice", stored.Username)
	})

	t.Run("invalid email is 422", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		user := seedUser(t, svc, "alice", false)
		router := userRouter(NewUserHandler(svc))

		rec := doAs(t, router, user, http.MethodPut, "/users/me", `{"email":"nope"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestUserHandlerAdmin(t *testing.T) {
	t.Parallel()

	t.Run("list pages users in insertion order", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		admin := seedUser(t, svc, "admin", true)
		seedUser(t, svc, "bob", false)
		router := userRouter(NewUserHandler(svc))

		rec := doAs(t, router, admin, http.MethodGet, "/users?skip=0&limit=10", "")

		require.Equal(t, http.StatusOK, rec.Code)

		var resp []UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
	})

	t.Run("get by ID", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		admin := seedUser(t, svc, "admin", true)
		bob := seedUser(t, svc, "bob", false)
		router := userRouter(NewUserHandler(svc))

		rec := doAs(t, router, admin, http.MethodGet, "/users/"+bob.ID.String(), "")

		require.Equal(t, http.StatusOK, rec.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, bob.ID, resp.ID)
	})

	t.Run("unknown ID is 404", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		admin := seedUser(t, svc, "admin", true)
		router := userRouter(NewUserHandler(svc))

		rec := doAs(t, router, admin, http.MethodGet, "/users/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed ID is 400", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		admin := seedUser(t, svc, "admin", true)
		router := userRouter(NewUserHandler(svc))

		rec := doAs(t, router, admin, http.MethodGet, "/users/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete another user", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		admin := seedUser(t, svc, "admin", true)
		bob := seedUser(t, svc, "bob", false)
		router := userRouter(NewUserHandler(svc))

		rec := doAs(t, router, admin, http.MethodDelete, "/users/"+bob.ID.String(), "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "deleted successfully")
	})

	t.Run("self-delete is 400, not 403", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		admin := seedUser(t, svc, "admin", true)
		router := userRouter(NewUserHandler(svc))

		rec := doAs(t, router, admin, http.MethodDelete, "/users/"+admin.ID.String(), "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "cannot delete themselves")
	})
}

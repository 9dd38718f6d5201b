package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/phrazzld/stash-api/internal/mocks"
	"github.com/phrazzld/stash-api/internal/service"
	"github.com/phrazzld/stash-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService implements service.UserService over an in-memory map,
// skipping the transaction plumbing the real one needs.
type fakeUserService struct {
	users  *mocks.MockUserStore
	hasher *mocks.MockPasswordHasher
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{
		users:  mocks.NewMockUserStore(),
		hasher: &mocks.MockPasswordHasher{},
	}
}

var _ service.UserService = (*fakeUserService)(nil)

func (f *fakeUserService) Register(ctx context.Context, input service.RegistrationInput) (*domain.User, error) {
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if _, err := f.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, store.ErrEmailExists
	}
	if _, err := f.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, store.ErrUsernameExists
	}
	hashed, _ := f.hasher.Hash(input.Password)
	user, err := domain.NewUser(input.Email, input.Username, input.FullName, hashed)
	if err != nil {
		return nil, err
	}
	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (f *fakeUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := f.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, service.ErrInvalidCredentials
	}
	verifier := &mocks.MockPasswordVerifier{}
	if err := verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, service.ErrInvalidCredentials
	}
	return user, nil
}

func (f *fakeUserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return f.users.GetByID(ctx, id)
}

func (f *fakeUserService) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return f.users.List(ctx, offset, limit)
}

func (f *fakeUserService) UpdateSelf(ctx context.Context, id uuid.UUID, update service.UserUpdate) (*domain.User, error) {
	patch := store.UserPatch{
		Email:    update.Email,
		Username: update.Username,
		FullName: update.FullName,
		IsActive: update.IsActive,
	}
	if update.Password != nil {
		if err := domain.ValidatePassword(*update.Password); err != nil {
			return nil, err
		}
		hashed, _ := f.hasher.Hash(*update.Password)
		patch.HashedPassword = &hashed
	}
	return f.users.Update(ctx, id, patch)
}

func (f *fakeUserService) Delete(ctx context.Context, id uuid.UUID) error {
	return f.users.Delete(ctx, id)
}

// seedUser registers a user directly into the fake service's store.
func seedUser(t *testing.T, svc *fakeUserService, username string, superuser bool) *domain.User {
	t.Helper()

	user, err := domain.NewUser(username+"@example.com", username, "", "hashed:password-ok")
	require.NoError(t, err)
	user.IsSuperuser = superuser
	user.CreatedAt = time.Now().UTC().Add(-time.Duration(len(svc.users.Users)) * time.Second)
	svc.users.AddUser(user)
	return user
}

func registerBody() string {
	return `{"email":"alice@example.com","username":"alice","full_name":"Alice","password":"password-ok"}`
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Parallel()

	t.Run("valid registration returns 201 with the public user", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(newFakeUserService(), mocks.NewMockJWTService())

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(registerBody()))
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "alice@example.com", resp.Email)
		assert.Equal(t, "alice", resp.Username)
		assert.True(t, resp.IsActive)
		assert.False(t, resp.IsSuperuser)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("duplicate email is 400", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		seedUser(t, svc, "alice", false)
		handler := NewAuthHandler(svc, mocks.NewMockJWTService())

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(registerBody()))
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "email already exists")
	})

	t.Run("invalid payload is 422 with field errors", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(newFakeUserService(), mocks.NewMockJWTService())

		body := `{"email":"not-an-email","username":"al","password":"short"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			Detail []FieldError `json:"detail"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		fields := make([]string, 0, len(resp.Detail))
		for _, fe := range resp.Detail {
			fields = append(fields, fe.Field)
		}
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "password")
	})

	t.Run("malformed JSON is 422", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(newFakeUserService(), mocks.NewMockJWTService())

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func loginRequest(username, password string) *http.Request {
	form := url.Values{}
	if username != "" {
		form.Set("username", username)
	}
	if password != "" {
		form.Set("password", password)
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials return a bearer token", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		seedUser(t, svc, "alice", false)
		handler := NewAuthHandler(svc, mocks.NewMockJWTService())

		rec := httptest.NewRecorder()
		handler.Login(rec, loginRequest("alice", "password-ok"))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
	})

	t.Run("wrong password and unknown user both 401 identically", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		seedUser(t, svc, "alice", false)
		handler := NewAuthHandler(svc, mocks.NewMockJWTService())

		wrongRec := httptest.NewRecorder()
		handler.Login(wrongRec, loginRequest("alice", "wrong"))

		unknownRec := httptest.NewRecorder()
		handler.Login(unknownRec, loginRequest("nobody", "password-ok"))

		assert.Equal(t, http.StatusUnauthorized, wrongRec.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownRec.Code)
		assert.Equal(t, wrongRec.Body.String(), unknownRec.Body.String())
	})

	t.Run("inactive user is 403", func(t *testing.T) {
		t.Parallel()

		svc := newFakeUserService()
		user := seedUser(t, svc, "alice", false)
		user.IsActive = false
		handler := NewAuthHandler(svc, mocks.NewMockJWTService())

		rec := httptest.NewRecorder()
		handler.Login(rec, loginRequest("alice", "password-ok"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Inactive user")
	})

	t.Run("missing fields are 422", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(newFakeUserService(), mocks.NewMockJWTService())

		rec := httptest.NewRecorder()
		handler.Login(rec, loginRequest("alice", ""))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "password")
	})
}

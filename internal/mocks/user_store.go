package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/phrazzld/stash-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	ListFn          func(ctx context.Context, offset, limit int) ([]*domain.User, error)
	UpdateFn        func(ctx context.Context, id uuid.UUID, patch store.UserPatch) (*domain.User, error)
	DeleteFn        func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation, keyed by user ID
	mu    sync.Mutex
	Users map[uuid.UUID]*domain.User
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[uuid.UUID]*domain.User),
	}
}

var _ store.UserStore = (*MockUserStore)(nil)

// AddUser seeds the default in-memory data with a user.
func (m *MockUserStore) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[user.ID] = user
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	for _, existing := range m.Users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
	}

	m.Users[user.ID] = user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.Users[id]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// List implements the UserStore interface
func (m *MockUserStore) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, offset, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0, len(m.Users))
	for _, user := range m.Users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	if offset >= len(users) {
		return []*domain.User{}, nil
	}
	end := len(users)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return users[offset:end], nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, id uuid.UUID, patch store.UserPatch) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.Users[id]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.HashedPassword != nil {
		user.HashedPassword = *patch.HashedPassword
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	return user, nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Users[id]; !exists {
		return store.ErrUserNotFound
	}
	delete(m.Users, id)
	return nil
}

// WithTx implements the UserStore interface. The mock has no transaction
// semantics, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

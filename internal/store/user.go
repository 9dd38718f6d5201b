package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/domain"
)

// UserPatch is a sparse update of a user. A nil field means "leave
// untouched"; a non-nil field overwrites, even with a zero value. This
// distinguishes "omitted" from "explicitly cleared" on the wire.
type UserPatch struct {
	Email          *string
	Username       *string
	FullName       *string
	HashedPassword *string
	IsActive       *bool
}

// IsZero reports whether the patch carries no fields.
func (p UserPatch) IsZero() bool {
	return p.Email == nil && p.Username == nil && p.FullName == nil &&
		p.HashedPassword == nil && p.IsActive == nil
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists or ErrUsernameExists on unique violations.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns users ordered by creation time (insertion order).
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)

	// Update applies a sparse patch and returns the updated user.
	// Fields absent from the patch are untouched.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrEmailExists/ErrUsernameExists on unique violations.
	Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*domain.User, error)

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the provided transaction so
	// multiple operations can share one caller-managed transaction.
	WithTx(tx *sql.Tx) UserStore
}

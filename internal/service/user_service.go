package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/phrazzld/stash-api/internal/service/auth"
	"github.com/phrazzld/stash-api/internal/store"
)

// RegistrationInput carries the fields a new user signs up with. The
// password is plaintext here and only here; the service hashes it before
// anything is stored.
type RegistrationInput struct {
	Email    string
	Username string
	FullName string
	Password string
}

// UserUpdate is a sparse self-service update. Nil means "leave untouched".
// Password, when present, is plaintext and gets re-hashed by the service.
type UserUpdate struct {
	Email    *string
	Username *string
	FullName *string
	Password *string
	IsActive *bool
}

// UserService provides user account operations: registration, credential
// checks, and the admin management surface.
type UserService interface {
	// Register creates a new user account. The email is checked for
	// uniqueness before the username, so when both collide the email
	// conflict is the one reported.
	// Returns store.ErrEmailExists or store.ErrUsernameExists on conflict.
	Register(ctx context.Context, input RegistrationInput) (*domain.User, error)

	// Authenticate verifies a username/password pair and returns the
	// matching user. Unknown username and wrong password produce the same
	// ErrInvalidCredentials, leaking nothing about which accounts exist.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// Get retrieves a user by ID.
	// Returns store.ErrUserNotFound if the user does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List returns users in insertion order for the admin listing.
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)

	// UpdateSelf applies a sparse update to the user's own account,
	// re-hashing the password when one is supplied.
	UpdateSelf(ctx context.Context, id uuid.UUID, update UserUpdate) (*domain.User, error)

	// Delete removes a user account. The self-deletion guard lives at the
	// API layer; this method deletes whatever ID it is given.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	db        *sql.DB
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
		db:        db,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

var _ UserService = (*UserServiceImpl)(nil)

// Register creates a new user account inside a single transaction. The
// uniqueness checks run against the transaction's view, then the insert's
// unique indexes back them up against races.
func (s *UserServiceImpl) Register(ctx context.Context, input RegistrationInput) (*domain.User, error) {
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("failed to hash password",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(input.Email, input.Username, input.FullName, hashed)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		// Email first, then username: when both collide only the email
		// conflict is reported.
		if _, err := txStore.GetByEmail(ctx, input.Email); err == nil {
			return store.ErrEmailExists
		} else if !errors.Is(err, store.ErrUserNotFound) {
			return err
		}

		if _, err := txStore.GetByUsername(ctx, input.Username); err == nil {
			return store.ErrUsernameExists
		} else if !errors.Is(err, store.ErrUserNotFound) {
			return err
		}

		return txStore.Create(ctx, user)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("registration conflict",
				slog.String("username", input.Username))
		} else {
			s.logger.Error("failed to register user",
				slog.String("error", err.Error()),
				slog.String("username", input.Username))
		}
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return user, nil
}

// Authenticate verifies a username/password pair. Both failure modes take
// the same path out so response timing and shape stay as close as possible.
func (s *UserServiceImpl) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("authentication failed: unknown username")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for authentication",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("authentication failed: password mismatch",
			slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Get retrieves a user by ID.
func (s *UserServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userStore.GetByID(ctx, id)
}

// List returns users in insertion order.
func (s *UserServiceImpl) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return s.userStore.List(ctx, offset, limit)
}

// UpdateSelf applies a sparse update to the user's own account. A supplied
// password is validated and re-hashed; everything else passes through to the
// store patch unchanged.
func (s *UserServiceImpl) UpdateSelf(ctx context.Context, id uuid.UUID, update UserUpdate) (*domain.User, error) {
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
		hashed, err := s.hasher.Hash(*update.Password)
		if err != nil {
			s.logger.Error("failed to hash password for update",
				slog.String("error", err.Error()),
				slog.String("user_id", id.String()))
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patch.HashedPassword = &hashed
	}

	user, err := s.userStore.Update(ctx, id, patch)
	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("self-update conflict",
				slog.String("user_id", id.String()))
		} else if !store.IsNotFoundError(err) {
			s.logger.Error("failed to update user",
				slog.String("error", err.Error()),
				slog.String("user_id", id.String()))
		}
		return nil, err
	}

	s.logger.Info("user updated", slog.String("user_id", id.String()))
	return user, nil
}

// Delete removes a user account.
func (s *UserServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userStore.Delete(ctx, id); err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to delete user",
				slog.String("error", err.Error()),
				slog.String("user_id", id.String()))
		}
		return err
	}

	s.logger.Info("user deleted", slog.String("user_id", id.String()))
	return nil
}

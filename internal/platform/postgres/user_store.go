package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/phrazzld/stash-api/internal/platform/logger"
	"github.com/phrazzld/stash-api/internal/store"
)

// Unique constraint names from the users migration. mapUserUniqueError
// relies on these to tell a duplicate email from a duplicate username.
const (
	usersEmailKey    = "users_email_key"
	usersUsernameKey = "users_username_key"
)

// userColumns is the canonical column list scanned by scanUser.
const userColumns = "id, email, username, full_name, hashed_password, is_active, is_superuser, created_at, updated_at"

// UserStore implements the store.UserStore interface using PostgreSQL.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStore creates a PostgreSQL implementation of store.UserStore.
// It accepts a database connection or transaction managed by the caller.
// If logger is nil, the default logger is used.
func NewUserStore(db store.DBTX, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx, logger: s.logger}
}

// scanUser maps one users row onto a domain.User. full_name is nullable in
// storage but plain string on the entity.
func scanUser(scan func(dest ...any) error) (*domain.User, error) {
	var user domain.User
	var fullName sql.NullString

	err := scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&fullName,
		&user.HashedPassword,
		&user.IsActive,
		&user.IsSuperuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.FullName = fullName.String
	return &user, nil
}

// nullableString converts "" to NULL for storage.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create implements store.UserStore.Create
// Returns store.ErrEmailExists or store.ErrUsernameExists when the
// corresponding unique index is violated.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO users (id, email, username, full_name, hashed_password, is_active, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.Username,
		nullableString(user.FullName),
		user.HashedPassword,
		user.IsActive,
		user.IsSuperuser,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("unique violation during user creation",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
		} else {
			log.Error("failed to create user",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
		}
		return s.mapUserUniqueError(err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return nil
}

// mapUserUniqueError resolves the users table's unique indexes to their
// specific sentinels before falling back to the generic mapping.
func (s *UserStore) mapUserUniqueError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		switch pgErr.ConstraintName {
		case usersEmailKey:
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		case usersUsernameKey:
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		}
	}
	return MapError(err)
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := queryOne(ctx, s.db, query, scanUser, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := queryOne(ctx, s.db, query, scanUser, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)

	user, err := queryOne(ctx, s.db, query, scanUser, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List implements store.UserStore.List
// Users come back in insertion order (created_at ascending).
func (s *UserStore) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users ORDER BY created_at ASC OFFSET $1 LIMIT $2`,
		userColumns,
	)
	return queryMany(ctx, s.db, query, scanUser, offset, limit)
}

// Update implements store.UserStore.Update
// Only the fields present in the patch are written; the row's updated_at is
// always bumped. An empty patch returns the current row unchanged.
func (s *UserStore) Update(ctx context.Context, id uuid.UUID, patch store.UserPatch) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.IsZero() {
		return s.GetByID(ctx, id)
	}

	columns := make([]patchColumn, 0, 6)
	if patch.Email != nil {
		columns = append(columns, patchColumn{"email", *patch.Email})
	}
	if patch.Username != nil {
		columns = append(columns, patchColumn{"username", *patch.Username})
	}
	if patch.FullName != nil {
		columns = append(columns, patchColumn{"full_name", nullableString(*patch.FullName)})
	}
	if patch.HashedPassword != nil {
		columns = append(columns, patchColumn{"hashed_password", *patch.HashedPassword})
	}
	if patch.IsActive != nil {
		columns = append(columns, patchColumn{"is_active", *patch.IsActive})
	}
	columns = append(columns, patchColumn{"updated_at", time.Now().UTC()})

	set, args := setClause(columns)
	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		set, len(args)+1, userColumns,
	)
	args = append(args, id)

	user, err := queryOne(ctx, s.db, query, scanUser, args...)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		log.Debug("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, s.mapUserUniqueError(err)
	}

	return user, nil
}

// Delete implements store.UserStore.Delete
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := execExpectingRows(ctx, s.db, store.ErrUserNotFound,
		`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	log.Info("user deleted", slog.String("user_id", id.String()))
	return nil
}

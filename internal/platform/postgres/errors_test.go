package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/stash-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	t.Run("nil passes through", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, MapError(nil))
	})

	t.Run("no rows maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()
		err := MapError(fmt.Errorf("scan: %w", sql.ErrNoRows))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unique violation maps to ErrDuplicate", func(t *testing.T) {
		t.Parallel()
		err := MapError(&pgconn.PgError{Code: "23505"})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("foreign key violation maps to ErrInvalidEntity", func(t *testing.T) {
		t.Parallel()
		err := MapError(&pgconn.PgError{Code: "23503", ConstraintName: "items_owner_id_fkey"})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Contains(t, err.Error(), "items_owner_id_fkey")
	})

	t.Run("unrelated errors pass through unchanged", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("connection reset")
		assert.Equal(t, boom, MapError(boom))
	})

	// The per-store constraint mappers run errors.As against errors that
	// have already been through MapError, so the driver error must stay
	// reachable in the wrapped chain.
	t.Run("driver error stays in the chain after mapping", func(t *testing.T) {
		t.Parallel()

		mapped := MapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		var pgErr *pgconn.PgError
		require.ErrorAs(t, mapped, &pgErr)
		assert.Equal(t, "users_email_key", pgErr.ConstraintName)
	})

	t.Run("constraint sentinel resolves from an already-mapped error", func(t *testing.T) {
		t.Parallel()

		mapped := MapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		err := (&UserStore{}).mapUserUniqueError(mapped)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})
}

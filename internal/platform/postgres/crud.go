package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/stash-api/internal/store"
)

// This file holds the CRUD machinery shared by the per-entity stores.
// Each store supplies its SQL text and a scan function (the entity
// descriptor: table plus column mapping); the free functions below own the
// query execution and error-mapping discipline. They run on store.DBTX, so
// a store bound to a transaction via WithTx participates in the caller's
// transaction without committing anything itself.

// rowScanner maps a single database row onto an entity.
type rowScanner[T any] func(scan func(dest ...any) error) (*T, error)

// queryOne executes a query expected to return at most one row.
// Returns store.ErrNotFound (wrapped) when the row is absent.
func queryOne[T any](
	ctx context.Context,
	db store.DBTX,
	query string,
	scan rowScanner[T],
	args ...any,
) (*T, error) {
	row := db.QueryRowContext(ctx, query, args...)
	entity, err := scan(row.Scan)
	if err != nil {
		return nil, MapError(err)
	}
	return entity, nil
}

// queryMany executes a query returning any number of rows, scanning each
// with the supplied scanner. Returns an empty slice, not nil, for no rows.
func queryMany[T any](
	ctx context.Context,
	db store.DBTX,
	query string,
	scan rowScanner[T],
	args ...any,
) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entities := make([]*T, 0)
	for rows.Next() {
		entity, err := scan(rows.Scan)
		if err != nil {
			return nil, MapError(err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entities, nil
}

// execExpectingRows executes a statement and returns notFoundErr when it
// affected no rows. Used for UPDATE and DELETE, where zero affected rows
// means the target does not exist.
func execExpectingRows(
	ctx context.Context,
	db store.DBTX,
	notFoundErr error,
	query string,
	args ...any,
) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundErr
	}

	return nil
}

// setClause builds the SET fragment of a sparse-patch UPDATE from the
// columns present in the patch. Placeholders start at $1; the returned args
// line up with them, and the caller appends its WHERE arguments after.
type patchColumn struct {
	name  string
	value any
}

func setClause(columns []patchColumn) (string, []any) {
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for i, col := range columns {
		parts = append(parts, fmt.Sprintf("%s = $%d", col.name, i+1))
		args = append(args, col.value)
	}
	return strings.Join(parts, ", "), args
}

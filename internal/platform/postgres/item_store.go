package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/phrazzld/stash-api/internal/platform/logger"
	"github.com/phrazzld/stash-api/internal/store"
)

// itemColumns is the canonical column list scanned by scanItem.
const itemColumns = "id, title, description, owner_id, is_active, created_at, updated_at"

// ItemStore implements the store.ItemStore interface using PostgreSQL.
type ItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewItemStore creates a PostgreSQL implementation of store.ItemStore.
// It accepts a database connection or transaction managed by the caller.
// If logger is nil, the default logger is used.
func NewItemStore(db store.DBTX, logger *slog.Logger) *ItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure ItemStore implements store.ItemStore interface
var _ store.ItemStore = (*ItemStore)(nil)

// WithTx implements store.ItemStore.WithTx
func (s *ItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &ItemStore{db: tx, logger: s.logger}
}

// scanItem maps one items row onto a domain.Item.
func scanItem(scan func(dest ...any) error) (*domain.Item, error) {
	var item domain.Item
	var description sql.NullString

	err := scan(
		&item.ID,
		&item.Title,
		&description,
		&item.OwnerID,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Description = description.String
	return &item, nil
}

// Create implements store.ItemStore.Create
// Returns store.ErrInvalidEntity when the owner does not exist (foreign key
// violation).
func (s *ItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO items (id, title, description, owner_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Title,
		nullableString(item.Description),
		item.OwnerID,
		item.IsActive,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during item creation",
				slog.String("error", err.Error()),
				slog.String("owner_id", item.OwnerID.String()))
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, item.OwnerID)
		}

		log.Error("failed to create item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return MapError(err)
	}

	log.Info("item created",
		slog.String("item_id", item.ID.String()),
		slog.String("owner_id", item.OwnerID.String()))
	return nil
}

// GetByID implements store.ItemStore.GetByID
func (s *ItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM items WHERE id = $1`, itemColumns)

	item, err := queryOne(ctx, s.db, query, scanItem, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// GetByOwner implements store.ItemStore.GetByOwner
// Returns every item belonging to the owner in insertion order; the caller
// slices for pagination.
func (s *ItemStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Item, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM items WHERE owner_id = $1 ORDER BY created_at ASC`,
		itemColumns,
	)
	return queryMany(ctx, s.db, query, scanItem, ownerID)
}

// Update implements store.ItemStore.Update
// Only fields present in the patch are written. Ownership is never updated.
func (s *ItemStore) Update(ctx context.Context, id uuid.UUID, patch store.ItemPatch) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.IsZero() {
		return s.GetByID(ctx, id)
	}

	columns := make([]patchColumn, 0, 4)
	if patch.Title != nil {
		columns = append(columns, patchColumn{"title", *patch.Title})
	}
	if patch.Description != nil {
		columns = append(columns, patchColumn{"description", nullableString(*patch.Description)})
	}
	if patch.IsActive != nil {
		columns = append(columns, patchColumn{"is_active", *patch.IsActive})
	}
	columns = append(columns, patchColumn{"updated_at", time.Now().UTC()})

	set, args := setClause(columns)
	query := fmt.Sprintf(
		`UPDATE items SET %s WHERE id = $%d RETURNING %s`,
		set, len(args)+1, itemColumns,
	)
	args = append(args, id)

	item, err := queryOne(ctx, s.db, query, scanItem, args...)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrItemNotFound
		}
		log.Debug("failed to update item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, err
	}

	return item, nil
}

// Delete implements store.ItemStore.Delete
func (s *ItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := execExpectingRows(ctx, s.db, store.ErrItemNotFound,
		`DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}

	log.Info("item deleted", slog.String("item_id", id.String()))
	return nil
}

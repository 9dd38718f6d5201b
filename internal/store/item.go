package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/domain"
)

// ItemPatch is a sparse update of an item. A nil field means "leave
// untouched". Ownership is immutable and deliberately absent here.
type ItemPatch struct {
	Title       *string
	Description *string
	IsActive    *bool
}

// IsZero reports whether the patch carries no fields.
func (p ItemPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.IsActive == nil
}

// ItemStore defines the interface for item data persistence.
type ItemStore interface {
	// Create saves a new item to the store.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// GetByOwner returns every item belonging to the owner, ordered by
	// creation time. Pagination is applied by the caller.
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Item, error)

	// Update applies a sparse patch and returns the updated item.
	// Returns ErrItemNotFound if the item does not exist.
	Update(ctx context.Context, id uuid.UUID, patch ItemPatch) (*domain.Item, error)

	// Delete removes an item from the store by its ID.
	// Returns ErrItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns an ItemStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ItemStore
}

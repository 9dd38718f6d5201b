package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/phrazzld/stash-api/internal/store"
)

// ItemDraft carries the client-supplied fields of a new item. The owner is
// never part of the draft; it is stamped from the authenticated user.
type ItemDraft struct {
	Title       string
	Description string
}

// ItemService provides item operations for authenticated users. Ownership
// checks (owner-or-superuser) are the caller's responsibility; the service
// operates on whatever IDs it is handed.
type ItemService interface {
	// Create stores a new item owned by ownerID.
	Create(ctx context.Context, draft ItemDraft, ownerID uuid.UUID) (*domain.Item, error)

	// ListForOwner returns a page of the owner's items in insertion order.
	ListForOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*domain.Item, error)

	// Get retrieves an item by ID.
	// Returns store.ErrItemNotFound if the item does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// Update applies a sparse patch to an item.
	Update(ctx context.Context, id uuid.UUID, patch store.ItemPatch) (*domain.Item, error)

	// Delete removes an item.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemServiceImpl implements the ItemService interface.
type ItemServiceImpl struct {
	itemStore store.ItemStore
	logger    *slog.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(itemStore store.ItemStore, logger *slog.Logger) *ItemServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemServiceImpl{
		itemStore: itemStore,
		logger:    logger.With(slog.String("component", "item_service")),
	}
}

var _ ItemService = (*ItemServiceImpl)(nil)

// Create stores a new item owned by ownerID.
func (s *ItemServiceImpl) Create(ctx context.Context, draft ItemDraft, ownerID uuid.UUID) (*domain.Item, error) {
	item, err := domain.NewItem(draft.Title, draft.Description, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.itemStore.Create(ctx, item); err != nil {
		s.logger.Error("failed to create item",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	s.logger.Info("item created",
		slog.String("item_id", item.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return item, nil
}

// ListForOwner pages through the owner's items. The store returns the full
// ownership scan and the page is sliced here; fine at the collection sizes
// this serves, and it keeps the pagination rules in one place.
func (s *ItemServiceImpl) ListForOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*domain.Item, error) {
	items, err := s.itemStore.GetByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list items",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []*domain.Item{}, nil
	}

	end := len(items)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], nil
}

// Get retrieves an item by ID.
func (s *ItemServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return s.itemStore.GetByID(ctx, id)
}

// Update applies a sparse patch to an item.
func (s *ItemServiceImpl) Update(ctx context.Context, id uuid.UUID, patch store.ItemPatch) (*domain.Item, error) {
	item, err := s.itemStore.Update(ctx, id, patch)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to update item",
				slog.String("error", err.Error()),
				slog.String("item_id", id.String()))
		}
		return nil, err
	}

	s.logger.Info("item updated", slog.String("item_id", id.String()))
	return item, nil
}

// Delete removes an item.
func (s *ItemServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.itemStore.Delete(ctx, id); err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to delete item",
				slog.String("error", err.Error()),
				slog.String("item_id", id.String()))
		}
		return err
	}

	s.logger.Info("item deleted", slog.String("item_id", id.String()))
	return nil
}

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

// MockItemStore implements store.ItemStore for testing
type MockItemStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, item *domain.Item) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	GetByOwnerFn func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Item, error)
	UpdateFn     func(ctx context.Context, id uuid.UUID, patch store.ItemPatch) (*domain.Item, error)
	DeleteFn     func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation, keyed by item ID
	mu    sync.Mutex
	Items map[uuid.UUID]*domain.Item
}

// NewMockItemStore creates a new mock store with initialized defaults
func NewMockItemStore() *MockItemStore {
	return &MockItemStore{
		Items: make(map[uuid.UUID]*domain.Item),
	}
}

var _ store.ItemStore = (*MockItemStore)(nil)

// AddItem seeds the default in-memory data with an item.
func (m *MockItemStore) AddItem(item *domain.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[item.ID] = item
}

// Create implements the ItemStore interface
func (m *MockItemStore) Create(ctx context.Context, item *domain.Item) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, item)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[item.ID] = item
	return nil
}

// GetByID implements the ItemStore interface
func (m *MockItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.Items[id]
	if !exists {
		return nil, store.ErrItemNotFound
	}
	return item, nil
}

// GetByOwner implements the ItemStore interface
func (m *MockItemStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Item, error) {
	if m.GetByOwnerFn != nil {
		return m.GetByOwnerFn(ctx, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]*domain.Item, 0)
	for _, item := range m.Items {
		if item.OwnerID == ownerID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// Update implements the ItemStore interface
func (m *MockItemStore) Update(ctx context.Context, id uuid.UUID, patch store.ItemPatch) (*domain.Item, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.Items[id]
	if !exists {
		return nil, store.ErrItemNotFound
	}

	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.IsActive != nil {
		item.IsActive = *patch.IsActive
	}
	return item, nil
}

// Delete implements the ItemStore interface
func (m *MockItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Items[id]; !exists {
		return store.ErrItemNotFound
	}
	delete(m.Items, id)
	return nil
}

// WithTx implements the ItemStore interface. The mock has no transaction
// semantics, so it returns itself.
func (m *MockItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return m
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/phrazzld/stash-api/internal/mocks"
	"github.com/phrazzld/stash-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItemServiceTest(t *testing.T) (*ItemServiceImpl, *mocks.MockItemStore) {
	t.Helper()

	itemStore := mocks.NewMockItemStore()
	return NewItemService(itemStore, nil), itemStore
}

// seedItems stores n items for the owner with strictly increasing
// creation times so list order is deterministic.
func seedItems(t *testing.T, itemStore *mocks.MockItemStore, ownerID uuid.UUID, n int) []*domain.Item {
	t.Helper()

	base := time.Now().UTC()
	items := make([]*domain.Item, 0, n)
	for i := 0; i < n; i++ {
		item, err := domain.NewItem("item", "", ownerID)
		require.NoError(t, err)
		item.CreatedAt = base.Add(time.Duration(i) * time.Second)
		itemStore.AddItem(item)
		items = append(items, item)
	}
	return items
}

func TestItemServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("stamps the owner server-side", func(t *testing.T) {
		t.Parallel()

		svc, itemStore := newItemServiceTest(t)
		ownerID := uuid.New()

		item, err := svc.Create(context.Background(), ItemDraft{Title: "Groceries", Description: "weekly"}, ownerID)
		require.NoError(t, err)

		assert.Equal(t, ownerID, item.OwnerID)
		assert.Equal(t, "Groceries", item.Title)
		assert.True(t, item.IsActive)

		stored, err := itemStore.GetByID(context.Background(), item.ID)
		require.NoError(t, err)
		assert.Equal(t, ownerID, stored.OwnerID)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		t.Parallel()

		svc, _ := newItemServiceTest(t)

		_, err := svc.Create(context.Background(), ItemDraft{}, uuid.New())
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("propagates store failure", func(t *testing.T) {
		t.Parallel()

		svc, itemStore := newItemServiceTest(t)
		itemStore.CreateFn = func(ctx context.Context, item *domain.Item) error {
			return errors.New("connection refused")
		}

		_, err := svc.Create(context.Background(), ItemDraft{Title: "x"}, uuid.New())
		assert.Error(t, err)
	})
}

func TestItemServiceListForOwner(t *testing.T) {
	t.Parallel()

	t.Run("pages in insertion order", func(t *testing.T) {
		t.Parallel()

		svc, itemStore := newItemServiceTest(t)
		ownerID := uuid.New()
		seeded := seedItems(t, itemStore, ownerID, 5)

		page, err := svc.ListForOwner(context.Background(), ownerID, 1, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, seeded[1].ID, page[0].ID)
		assert.Equal(t, seeded[2].ID, page[1].ID)
	})

	t.Run("only the owner's items appear", func(t *testing.T) {
		t.Parallel()

		svc, itemStore := newItemServiceTest(t)
		ownerID := uuid.New()
		seedItems(t, itemStore, ownerID, 2)
		seedItems(t, itemStore, uuid.New(), 3)

		items, err := svc.ListForOwner(context.Background(), ownerID, 0, 100)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("offset past the end yields an empty page", func(t *testing.T) {
		t.Parallel()

		svc, itemStore := newItemServiceTest(t)
		ownerID := uuid.New()
		seedItems(t, itemStore, ownerID, 2)

		items, err := svc.ListForOwner(context.Background(), ownerID, 10, 5)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("limit past the end is clamped", func(t *testing.T) {
		t.Parallel()

		svc, itemStore := newItemServiceTest(t)
		ownerID := uuid.New()
		seedItems(t, itemStore, ownerID, 3)

		items, err := svc.ListForOwner(context.Background(), ownerID, 2, 100)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestItemServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("applies a sparse patch", func(t *testing.T) {
		t.Parallel()

		svc, itemStore := newItemServiceTest(t)
		seeded := seedItems(t, itemStore, uuid.New(), 1)[0]

		title := "Renamed"
		updated, err := svc.Update(context.Background(), seeded.ID, store.ItemPatch{Title: &title})
		require.NoError(t, err)

		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, seeded.OwnerID, updated.OwnerID)
	})

	t.Run("missing item returns ErrItemNotFound", func(t *testing.T) {
		t.Parallel()

		svc, _ := newItemServiceTest(t)
		title := "x"

		_, err := svc.Update(context.Background(), uuid.New(), store.ItemPatch{Title: &title})
		assert.ErrorIs(t, err, store.ErrItemNotFound)
	})
}

func TestItemServiceDelete(t *testing.T) {
	t.Parallel()

	svc, itemStore := newItemServiceTest(t)
	seeded := seedItems(t, itemStore, uuid.New(), 1)[0]

	require.NoError(t, svc.Delete(context.Background(), seeded.ID))

	_, err := svc.Get(context.Background(), seeded.ID)
	assert.ErrorIs(t, err, store.ErrItemNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), seeded.ID), store.ErrItemNotFound)
}

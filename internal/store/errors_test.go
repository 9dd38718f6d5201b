package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrorChains(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ErrUserNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrItemNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrEmailExists, ErrDuplicate)
	assert.ErrorIs(t, ErrUsernameExists, ErrDuplicate)

	assert.NotErrorIs(t, ErrEmailExists, ErrNotFound)
	assert.NotErrorIs(t, ErrUserNotFound, ErrDuplicate)
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("lookup failed: %w", ErrUserNotFound)
	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsDuplicateError(wrapped))

	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrUsernameExists)))
	assert.False(t, IsNotFoundError(errors.New("unrelated")))
}

func TestPatchIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, UserPatch{}.IsZero())
	assert.True(t, ItemPatch{}.IsZero())

	name := "new-name"
	assert.False(t, UserPatch{Username: &name}.IsZero())

	inactive := false
	assert.False(t, ItemPatch{IsActive: &inactive}.IsZero())
}

package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Item validation errors. All wrap ErrValidation so callers can match the
// whole family with a single errors.Is.
var (
	ErrEmptyItemID  = fmt.Errorf("%w: item ID cannot be empty", ErrValidation)
	ErrEmptyTitle   = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrTitleTooLong = fmt.Errorf("%w: title must be at most 255 characters long", ErrValidation)
	ErrEmptyOwnerID = fmt.Errorf("%w: owner ID cannot be empty", ErrValidation)
)

// Item represents a user-owned resource. Every item has exactly one owning
// user; ownership is immutable after creation.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewItem creates an Item owned by the given user with a fresh ID and
// timestamps. Returns an error if validation fails.
func NewItem(title, description string, ownerID uuid.UUID) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
func (i *Item) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyItemID
	}
	if i.Title == "" {
		return ErrEmptyTitle
	}
	if len(i.Title) > 255 {
		return ErrTitleTooLong
	}
	if i.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}
	return nil
}

// OwnedBy reports whether the given user may mutate this item: the owner or
// any superuser.
func (i *Item) OwnedBy(user *User) bool {
	return i.OwnerID == user.ID || user.IsSuperuser
}

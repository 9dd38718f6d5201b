package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"               validate:"required,email"`
	Username string `json:"username"            validate:"required,min=3,max=100"`
	FullName string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Password string `json:"password"            validate:"required,min=8,max=72"`
}

// UpdateMeRequest defines the sparse payload for self-service profile
// updates. A nil field was omitted from the request and stays untouched; a
// present field overwrites.
type UpdateMeRequest struct {
	Email    *string `json:"email"     validate:"omitempty,email"`
	Username *string `json:"username"  validate:"omitempty,min=3,max=100"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Password *string `json:"password"  validate:"omitempty,min=8,max=72"`
	IsActive *bool   `json:"is_active"`
}

// CreateItemRequest defines the payload for creating an item. The owner is
// never part of the payload.
type CreateItemRequest struct {
	Title       string `json:"title"                 validate:"required,max=255"`
	Description string `json:"description,omitempty" validate:"omitempty,max=10000"`
}

// UpdateItemRequest defines the sparse payload for updating an item.
type UpdateItemRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	IsActive    *bool   `json:"is_active"`
}

// TokenResponse defines the successful response for the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public representation of a user. The password hash
// never appears here.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewUserResponse builds the public view of a user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		FullName:    user.FullName,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// NewUserListResponse builds the public view of a user collection.
func NewUserListResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}

// ItemResponse is the public representation of an item.
type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewItemResponse builds the public view of an item.
func NewItemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		OwnerID:     item.OwnerID,
		IsActive:    item.IsActive,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// NewItemListResponse builds the public view of an item collection.
func NewItemListResponse(items []*domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewItemResponse(item))
	}
	return out
}

// MessageResponse is a plain confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

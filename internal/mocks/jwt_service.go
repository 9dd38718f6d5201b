package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/stash-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// Function fields for customizable behavior
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Data for default implementation: token string -> claims
	Tokens map[string]*auth.Claims
}

// NewMockJWTService creates a new mock with initialized defaults
func NewMockJWTService() *MockJWTService {
	return &MockJWTService{
		Tokens: make(map[string]*auth.Claims),
	}
}

var _ auth.JWTService = (*MockJWTService)(nil)

// AddToken registers a token string as valid for the given user.
func (m *MockJWTService) AddToken(token string, userID uuid.UUID) {
	m.Tokens[token] = &auth.Claims{
		UserID:  userID,
		Subject: userID.String(),
	}
}

// GenerateToken implements the JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}

	token := "token-" + userID.String()
	m.AddToken(token, userID)
	return token, nil
}

// ValidateToken implements the JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}

	claims, exists := m.Tokens[tokenString]
	if !exists {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

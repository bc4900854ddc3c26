package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jmallek/cities-api/internal/domain"
)

// MockJWTService is a mock implementation of the JWTService interface for testing.
// This is the single canonical mock implementation to be used in all tests.
type MockJWTService struct {
	// Function fields for custom behaviors
	GenerateTokenFunc func(ctx context.Context, user *domain.User) (*IssuedToken, error)
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*Claims, error)

	// Fixed fields for simple cases
	Issued          *IssuedToken // Default issuance result to return
	TokenError      error        // Default error for token generation
	ValidationError error        // Default error for token validation
	Claims          *Claims      // Default claims to return
}

// Ensure MockJWTService implements JWTService interface
var _ JWTService = (*MockJWTService)(nil)

// NewMockJWTService creates a new mock JWT service with default values.
// By default, it returns minimal values that will pass simple validation.
func NewMockJWTService() *MockJWTService {
	now := time.Now()
	userID := uuid.New()

	return &MockJWTService{
		Issued: &IssuedToken{
			Token:       "mock-jwt-token",
			Email:       "mock@example.com",
			DisplayName: "Mock User",
			ExpiresAt:   now.Add(1 * time.Hour),
		},
		Claims: &Claims{
			Subject:     userID.String(),
			TokenID:     uuid.New().String(),
			IssuedAt:    jwt.NewNumericDate(now),
			Email:       "mock@example.com",
			DisplayName: "Mock User",
			ExpiresAt:   jwt.NewNumericDate(now.Add(1 * time.Hour)),
			Issuer:      "mock-issuer",
			Audience:    "mock-audience",
		},
	}
}

// GenerateToken implements the JWTService.GenerateToken method.
func (m *MockJWTService) GenerateToken(ctx context.Context, user *domain.User) (*IssuedToken, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, user)
	}
	if m.TokenError != nil {
		return nil, m.TokenError
	}
	return m.Issued, nil
}

// ValidateToken implements the JWTService.ValidateToken method.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	if m.ValidationError != nil {
		return nil, m.ValidationError
	}
	return m.Claims, nil
}

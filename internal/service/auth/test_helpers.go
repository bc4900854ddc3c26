package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmallek/cities-api/internal/config"
	"github.com/jmallek/cities-api/internal/domain"
)

// Test issuer/audience values shared by every test-built service so that
// tokens minted by one helper validate against another.
const (
	TestIssuer   = "cities-api-test"
	TestAudience = "cities-api-clients"
)

// DefaultAuthConfig returns a standard configuration for JWT authentication
// suitable for testing. This is the single source of truth for auth test config.
func DefaultAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long!!", // At least 32 bytes
		TokenLifetimeMinutes: 60,
		Issuer:               TestIssuer,
		Audience:             TestAudience,
		ClockSkewSeconds:     0,
	}
}

// NewTestJWTService builds a service with an injectable clock, bypassing
// config validation so tests can probe edge cases directly.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:    []byte(secret),
		issuer:        TestIssuer,
		audience:      TestAudience,
		tokenLifetime: lifetime,
		clockSkew:     0,
		timeFunc:      timeFunc,
	}
}

// RequireTestJWTService creates a JWT service from the default test config
// and fails the test if construction fails.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	service, err := NewJWTService(DefaultAuthConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return service
}

// NewTestUser returns a valid user identity for token tests.
func NewTestUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("ada@example.com", "Ada Lovelace", "correct-horse-battery")
	require.NoError(t, err, "Failed to create test user")
	return user
}

// GenerateAuthHeaderForTesting creates an Authorization header value with a
// Bearer token for the given user, minted by the supplied service.
func GenerateAuthHeaderForTesting(t *testing.T, svc JWTService, user *domain.User) string {
	t.Helper()
	issued, err := svc.GenerateToken(context.Background(), user)
	require.NoError(t, err, "Failed to generate auth header token")
	return "Bearer " + issued.Token
}

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jmallek/cities-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given
	// authenticated user. The caller is assumed to have already verified
	// the user's credentials. Returns the compact token string together
	// with the display metadata clients show alongside it.
	GenerateToken(ctx context.Context, user *domain.User) (*IssuedToken, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims if the token is valid, or one of the sentinel
	// verification errors (ErrExpiredToken, ErrSignatureInvalid, ...) if not.
	// Malformed input yields ErrMalformedToken, never a panic.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// IssuedToken is the result of a successful token issuance: the encoded
// token plus the user-facing metadata. The signing key never appears here.
type IssuedToken struct {
	Token       string    `json:"token"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	ExpiresAt   time.Time `json:"expiration"`
}

// Claims is the signed payload of an issued token. Field order matters: it
// fixes the serialized claim order to subject, token ID, issued-at, email,
// display name, expiry, issuer, audience. The nameid/unique_name claim
// names are kept for compatibility with existing API clients.
type Claims struct {
	Subject     string           `json:"sub"`
	TokenID     string           `json:"jti"`
	IssuedAt    *jwt.NumericDate `json:"iat"`
	Email       string           `json:"nameid"`
	DisplayName string           `json:"unique_name"`
	ExpiresAt   *jwt.NumericDate `json:"exp"`
	Issuer      string           `json:"iss"`
	Audience    string           `json:"aud"`
}

// Ensure Claims satisfies the jwt claims contract, including the custom
// validation hook invoked during parsing.
var _ jwt.Claims = (*Claims)(nil)
var _ jwt.ClaimsValidator = (*Claims)(nil)

// GetExpirationTime implements jwt.Claims.
func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return c.ExpiresAt, nil
}

// GetIssuedAt implements jwt.Claims.
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return c.IssuedAt, nil
}

// GetNotBefore implements jwt.Claims. Issued tokens carry no nbf claim.
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

// GetIssuer implements jwt.Claims.
func (c *Claims) GetIssuer() (string, error) {
	return c.Issuer, nil
}

// GetSubject implements jwt.Claims.
func (c *Claims) GetSubject() (string, error) {
	return c.Subject, nil
}

// GetAudience implements jwt.Claims.
func (c *Claims) GetAudience() (jwt.ClaimStrings, error) {
	if c.Audience == "" {
		return nil, nil
	}
	return jwt.ClaimStrings{c.Audience}, nil
}

// Validate is called by the jwt parser after the standard time/issuer/
// audience checks. Every required claim must be present: a token missing
// one was not produced by this issuer and is treated as malformed.
func (c *Claims) Validate() error {
	switch {
	case c.Subject == "",
		c.TokenID == "",
		c.Email == "",
		c.DisplayName == "",
		c.IssuedAt == nil,
		c.ExpiresAt == nil:
		return errors.New("required claim missing")
	}
	return nil
}

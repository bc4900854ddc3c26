package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jmallek/cities-api/internal/config"
	"github.com/jmallek/cities-api/internal/domain"
	"github.com/jmallek/cities-api/internal/platform/logger"
)

// minSigningKeyBytes is the minimum HMAC-SHA256 key length (256 bits).
const minSigningKeyBytes = 32

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
type hmacJWTService struct {
	signingKey    []byte
	issuer        string
	audience      string
	tokenLifetime time.Duration
	clockSkew     time.Duration    // Leeway for time-claim validation to handle clock drift
	timeFunc      func() time.Time // Injectable for testing
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA256 signing.
// Configuration problems are reported here, once, at startup; a service
// that constructs successfully cannot fail a GenerateToken call for
// configuration reasons.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < minSigningKeyBytes {
		return nil, fmt.Errorf("jwt signing key must be at least %d bytes", minSigningKeyBytes)
	}
	if cfg.TokenLifetimeMinutes <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %d minutes", cfg.TokenLifetimeMinutes)
	}
	if cfg.Issuer == "" {
		return nil, errors.New("token issuer must be configured")
	}
	if cfg.Audience == "" {
		return nil, errors.New("token audience must be configured")
	}
	if cfg.ClockSkewSeconds < 0 {
		return nil, fmt.Errorf("clock skew cannot be negative, got %d seconds", cfg.ClockSkewSeconds)
	}

	return &hmacJWTService{
		signingKey:    []byte(cfg.JWTSecret),
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		tokenLifetime: time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		clockSkew:     time.Duration(cfg.ClockSkewSeconds) * time.Second,
		timeFunc:      time.Now,
	}, nil
}

// GenerateToken creates a signed JWT access token carrying the user's
// identity claims. Issuance is pure computation: nothing is persisted and
// there is no server-side session.
func (s *hmacJWTService) GenerateToken(ctx context.Context, user *domain.User) (*IssuedToken, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()
	expiresAt := now.Add(s.tokenLifetime)

	// Claim order is fixed: subject, token ID, issued-at, email, display
	// name, then expiry and the issuer/audience binding.
	claims := &Claims{
		Subject:     user.ID.String(),
		TokenID:     uuid.New().String(), // Unique per issuance
		IssuedAt:    jwt.NewNumericDate(now),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		ExpiresAt:   jwt.NewNumericDate(expiresAt),
		Issuer:      s.issuer,
		Audience:    s.audience,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT access token",
			"error", err,
			"user_id", user.ID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return nil, fmt.Errorf("failed to sign access token with HMAC-SHA256: %w", err)
	}

	return &IssuedToken{
		Token:       signedToken,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		ExpiresAt:   expiresAt,
	}, nil
}

// ValidateToken validates a JWT access token and returns the claims if valid.
// Signature, expiry (with configured leeway), issuer, and audience are all
// checked; each failure maps to its own sentinel error.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := s.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		reason := mapParseError(err)
		log.Debug("token validation failed",
			"error", err,
			"reason", reason.Error())
		return nil, reason
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrMalformedToken
	}

	log.Debug("token validated successfully",
		"subject", claims.Subject,
		"token_id", claims.TokenID,
		"expiry", claims.ExpiresAt.Time)

	return claims, nil
}

// mapParseError translates jwt parser errors into this package's sentinel
// verification failures. Checked most-specific first: structural damage,
// then signature, then the individual claim checks.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuerMismatch
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrAudienceMismatch
	default:
		// Unknown validation failures (missing claims, unexpected alg)
		// all count as malformed rather than leaking parser detail.
		return ErrMalformedToken
	}
}

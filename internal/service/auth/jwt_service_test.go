package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallek/cities-api/internal/config"
	"github.com/jmallek/cities-api/internal/domain"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func testUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("grace@example.com", "Grace Hopper", "valid-password-123")
	require.NoError(t, err)
	return user
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *config.AuthConfig)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *config.AuthConfig) {},
		},
		{
			name:    "short signing key",
			mutate:  func(c *config.AuthConfig) { c.JWTSecret = "short" },
			wantErr: "signing key",
		},
		{
			name:    "zero lifetime",
			mutate:  func(c *config.AuthConfig) { c.TokenLifetimeMinutes = 0 },
			wantErr: "lifetime",
		},
		{
			name:    "negative lifetime",
			mutate:  func(c *config.AuthConfig) { c.TokenLifetimeMinutes = -10 },
			wantErr: "lifetime",
		},
		{
			name:    "missing issuer",
			mutate:  func(c *config.AuthConfig) { c.Issuer = "" },
			wantErr: "issuer",
		},
		{
			name:    "missing audience",
			mutate:  func(c *config.AuthConfig) { c.Audience = "" },
			wantErr: "audience",
		},
		{
			name:    "negative clock skew",
			mutate:  func(c *config.AuthConfig) { c.ClockSkewSeconds = -1 },
			wantErr: "clock skew",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultAuthConfig()
			tt.mutate(&cfg)

			svc, err := NewJWTService(cfg)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, svc)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	user := testUser(t)

	svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
		return fixedTime
	})

	t.Run("generates valid token with all claims", func(t *testing.T) {
		t.Parallel()
		issued, err := svc.GenerateToken(context.Background(), user)
		require.NoError(t, err)
		require.NotEmpty(t, issued.Token)

		// Display metadata returned alongside the token
		assert.Equal(t, user.Email, issued.Email)
		assert.Equal(t, user.DisplayName, issued.DisplayName)
		assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), issued.ExpiresAt.Unix())

		claims, err := svc.ValidateToken(context.Background(), issued.Token)
		require.NoError(t, err)

		assert.Equal(t, user.ID.String(), claims.Subject)
		assert.NotEmpty(t, claims.TokenID)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, user.DisplayName, claims.DisplayName)
		assert.Equal(t, TestIssuer, claims.Issuer)
		assert.Equal(t, TestAudience, claims.Audience)
		// Compare Unix timestamps to avoid timezone issues
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("expiry minus issuance equals the configured lifetime exactly", func(t *testing.T) {
		t.Parallel()
		issued, err := svc.GenerateToken(context.Background(), user)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(context.Background(), issued.Token)
		require.NoError(t, err)
		assert.Equal(t, tokenLifetime, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))
	})

	t.Run("successive issuances carry distinct token IDs", func(t *testing.T) {
		t.Parallel()
		first, err := svc.GenerateToken(context.Background(), user)
		require.NoError(t, err)
		second, err := svc.GenerateToken(context.Background(), user)
		require.NoError(t, err)

		firstClaims, err := svc.ValidateToken(context.Background(), first.Token)
		require.NoError(t, err)
		secondClaims, err := svc.ValidateToken(context.Background(), second.Token)
		require.NoError(t, err)

		assert.NotEqual(t, firstClaims.TokenID, secondClaims.TokenID)
	})
}

func TestTokenWireFormat(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	user := testUser(t)
	svc := NewTestJWTService(testSecret, time.Hour, func() time.Time {
		return fixedTime
	})

	issued, err := svc.GenerateToken(context.Background(), user)
	require.NoError(t, err)

	parts := strings.Split(issued.Token, ".")
	require.Len(t, parts, 3, "compact serialization must have header.payload.signature")

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)

	var header map[string]string
	require.NoError(t, json.Unmarshal(headerJSON, &header))
	assert.Equal(t, "HS256", header["alg"])
	assert.Equal(t, "JWT", header["typ"])

	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(payloadJSON, &payload))
	assert.Equal(t, user.ID.String(), payload["sub"])
	assert.Equal(t, user.Email, payload["nameid"])
	assert.Equal(t, user.DisplayName, payload["unique_name"])
	assert.Equal(t, TestIssuer, payload["iss"])
	assert.Equal(t, TestAudience, payload["aud"])
	assert.NotEmpty(t, payload["jti"])
	assert.EqualValues(t, fixedTime.Unix(), payload["iat"])
	assert.EqualValues(t, fixedTime.Add(time.Hour).Unix(), payload["exp"])

	// Claim order in the serialized payload is fixed.
	text := string(payloadJSON)
	order := []string{`"sub"`, `"jti"`, `"iat"`, `"nameid"`, `"unique_name"`, `"exp"`, `"iss"`, `"aud"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		require.GreaterOrEqual(t, idx, 0, "payload should contain %s", key)
		assert.Greater(t, idx, last, "%s out of order in payload", key)
		last = idx
	}
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	wrongSecret := "wrong-secret-that-is-long-enough-for-test"
	user := testUser(t)

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				issued, err := svc.GenerateToken(context.Background(), user)
				require.NoError(t, err)
				return svc, issued.Token
			},
			wantErr: nil,
		},
		{
			name: "valid one second before expiry",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				issued, err := genSvc.GenerateToken(context.Background(), user)
				require.NoError(t, err)

				valSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime.Add(tokenLifetime - time.Second)
				})
				return valSvc, issued.Token
			},
			wantErr: nil,
		},
		{
			name: "expired one second after expiry",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				issued, err := genSvc.GenerateToken(context.Background(), user)
				require.NoError(t, err)

				valSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime.Add(tokenLifetime + time.Second)
				})
				return valSvc, issued.Token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				issued, err := genSvc.GenerateToken(context.Background(), user)
				require.NoError(t, err)

				valSvc := NewTestJWTService(wrongSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				return valSvc, issued.Token
			},
			wantErr: ErrSignatureInvalid,
		},
		{
			name: "issuer mismatch",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				issued, err := genSvc.GenerateToken(context.Background(), user)
				require.NoError(t, err)

				valSvc := &hmacJWTService{
					signingKey:    []byte(testSecret),
					issuer:        "some-other-issuer",
					audience:      TestAudience,
					tokenLifetime: tokenLifetime,
					timeFunc:      func() time.Time { return fixedTime },
				}
				return valSvc, issued.Token
			},
			wantErr: ErrIssuerMismatch,
		},
		{
			name: "audience mismatch",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				issued, err := genSvc.GenerateToken(context.Background(), user)
				require.NoError(t, err)

				valSvc := &hmacJWTService{
					signingKey:    []byte(testSecret),
					issuer:        TestIssuer,
					audience:      "some-other-audience",
					tokenLifetime: tokenLifetime,
					timeFunc:      func() time.Time { return fixedTime },
				}
				return valSvc, issued.Token
			},
			wantErr: ErrAudienceMismatch,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				return svc, "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrMalformedToken,
		},
		{
			name: "empty token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				return svc, ""
			},
			wantErr: ErrMissingToken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc(t)
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
			}
		})
	}
}

// TestValidateTokenPayloadTampering mutates each byte of the payload
// segment in turn and checks the signature rejects the modified token.
// Mutations that corrupt the payload JSON itself are reported as malformed
// instead, which is still a rejection.
func TestValidateTokenPayloadTampering(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	user := testUser(t)
	svc := NewTestJWTService(testSecret, time.Hour, func() time.Time {
		return fixedTime
	})

	issued, err := svc.GenerateToken(context.Background(), user)
	require.NoError(t, err)

	parts := strings.Split(issued.Token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	for i := range payload {
		mutated := make([]byte, len(payload))
		copy(mutated, payload)
		mutated[i] ^= 0x01 // single-bit flip

		tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(mutated) + "." + parts[2]
		claims, err := svc.ValidateToken(context.Background(), tampered)

		require.Error(t, err, "byte %d: tampered payload must not validate", i)
		assert.Nil(t, claims)
		if json.Valid(mutated) {
			assert.ErrorIs(t, err, ErrSignatureInvalid,
				"byte %d: structurally intact mutation must fail on signature", i)
		} else {
			assert.ErrorIs(t, err, ErrMalformedToken,
				"byte %d: corrupted payload JSON is malformed", i)
		}
	}
}

// TestValidateTokenMissingClaims builds tokens lacking required claims and
// checks they are rejected even though the signature is valid.
func TestValidateTokenMissingClaims(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTestJWTService(testSecret, time.Hour, func() time.Time {
		return fixedTime
	})
	user := testUser(t)

	issued, err := svc.GenerateToken(context.Background(), user)
	require.NoError(t, err)

	parts := strings.Split(issued.Token, ".")
	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	for _, claim := range []string{"sub", "jti", "nameid", "unique_name"} {
		t.Run("missing "+claim, func(t *testing.T) {
			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(payloadJSON, &payload))
			payload[claim] = ""

			mutated, err := json.Marshal(payload)
			require.NoError(t, err)

			// Re-sign with the real key so only the claim check can fail.
			signingInput := parts[0] + "." + base64.RawURLEncoding.EncodeToString(mutated)
			sig, err := jwt.SigningMethodHS256.Sign(signingInput, []byte(testSecret))
			require.NoError(t, err)
			token := signingInput + "." + base64.RawURLEncoding.EncodeToString(sig)

			claims, err := svc.ValidateToken(context.Background(), token)
			assert.ErrorIs(t, err, ErrMalformedToken)
			assert.Nil(t, claims)
		})
	}
}

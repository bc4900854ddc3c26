package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jmallek/cities-api/internal/api/shared"
	"github.com/jmallek/cities-api/internal/platform/metrics"
	"github.com/jmallek/cities-api/internal/redact"
	"github.com/jmallek/cities-api/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	metrics    metrics.Recorder
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, recorder metrics.Recorder) *AuthMiddleware {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		metrics:    recorder,
	}
}

// rejectionReason labels a validation failure for the metrics counter.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, auth.ErrMalformedToken):
		return "malformed_token"
	case errors.Is(err, auth.ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, auth.ErrExpiredToken):
		return "expired_token"
	case errors.Is(err, auth.ErrIssuerMismatch):
		return "issuer_mismatch"
	case errors.Is(err, auth.ErrAudienceMismatch):
		return "audience_mismatch"
	default:
		return "unknown"
	}
}

// Authenticate validates JWT tokens from the Authorization header and
// adds the authenticated user ID to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.metrics.RecordTokenRejected(rejectionReason(auth.ErrMissingToken))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.metrics.RecordTokenRejected(rejectionReason(auth.ErrMalformedToken))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			m.metrics.RecordTokenRejected(rejectionReason(err))

			// Each sentinel carries a client-safe reason.
			switch {
			case errors.Is(err, auth.ErrExpiredToken),
				errors.Is(err, auth.ErrMalformedToken),
				errors.Is(err, auth.ErrSignatureInvalid),
				errors.Is(err, auth.ErrIssuerMismatch),
				errors.Is(err, auth.ErrAudienceMismatch),
				errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, err.Error())
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(
					w,
					r,
					http.StatusInternalServerError,
					"Authentication error",
				)
			}
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			m.metrics.RecordTokenRejected("invalid_subject")
			shared.RespondWithError(w, r, http.StatusUnauthorized, "invalid token subject")
			return
		}

		// Add user ID to context
		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallek/cities-api/internal/domain"
	"github.com/jmallek/cities-api/internal/service"
	"github.com/jmallek/cities-api/internal/service/auth"
	"github.com/jmallek/cities-api/internal/store"
)

// mockAccountService implements service.AccountService with function fields.
type mockAccountService struct {
	RegisterFn     func(ctx context.Context, email, displayName, password string) (*domain.User, error)
	AuthenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
}

func (m *mockAccountService) Register(ctx context.Context, email, displayName, password string) (*domain.User, error) {
	return m.RegisterFn(ctx, email, displayName, password)
}

func (m *mockAccountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return m.AuthenticateFn(ctx, email, password)
}

func newAuthRouter(accounts *mockAccountService, jwt auth.JWTService) http.Handler {
	h := NewAuthHandler(accounts, jwt, nil, nil)
	r := chi.NewRouter()
	r.Post("/api/v1/account/register", h.Register)
	r.Post("/api/v1/account/login", h.Login)
	return r
}

func stubIssuedToken(user *domain.User) *auth.IssuedToken {
	return &auth.IssuedToken{
		Token:       "header.payload.signature",
		Email:       user.Email,
		DisplayName: user.DisplayName,
		ExpiresAt:   time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRegisterEndpoint(t *testing.T) {
	user, err := domain.NewUser("ada@example.com", "Ada Lovelace", "password123")
	require.NoError(t, err)

	jwt := &auth.MockJWTService{
		GenerateTokenFunc: func(ctx context.Context, u *domain.User) (*auth.IssuedToken, error) {
			return stubIssuedToken(u), nil
		},
	}

	t.Run("returns 201 with a token", func(t *testing.T) {
		accounts := &mockAccountService{
			RegisterFn: func(ctx context.Context, email, displayName, password string) (*domain.User, error) {
				return user, nil
			},
		}
		body := bytes.NewBufferString(`{"email":"ada@example.com","display_name":"Ada Lovelace","password":"password123"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/account/register", body)
		w := httptest.NewRecorder()
		newAuthRouter(accounts, jwt).ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var got AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "ada@example.com", got.Email)
		assert.Equal(t, "Ada Lovelace", got.DisplayName)
		assert.NotEmpty(t, got.Token)
		assert.False(t, got.Expiration.IsZero())
	})

	t.Run("duplicate email is a 409", func(t *testing.T) {
		accounts := &mockAccountService{
			RegisterFn: func(ctx context.Context, email, displayName, password string) (*domain.User, error) {
				return nil, store.ErrEmailExists
			},
		}
		body := bytes.NewBufferString(`{"email":"ada@example.com","display_name":"Ada Lovelace","password":"password123"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/account/register", body)
		w := httptest.NewRecorder()
		newAuthRouter(accounts, jwt).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Email already exists")
	})

	t.Run("invalid email is a 400", func(t *testing.T) {
		accounts := &mockAccountService{}
		body := bytes.NewBufferString(`{"email":"not-an-email","display_name":"Ada","password":"password123"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/account/register", body)
		w := httptest.NewRecorder()
		newAuthRouter(accounts, jwt).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("short password is a 400", func(t *testing.T) {
		accounts := &mockAccountService{}
		body := bytes.NewBufferString(`{"email":"ada@example.com","display_name":"Ada","password":"short"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/account/register", body)
		w := httptest.NewRecorder()
		newAuthRouter(accounts, jwt).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	user, err := domain.NewUser("ada@example.com", "Ada Lovelace", "password123")
	require.NoError(t, err)

	jwt := &auth.MockJWTService{
		GenerateTokenFunc: func(ctx context.Context, u *domain.User) (*auth.IssuedToken, error) {
			return stubIssuedToken(u), nil
		},
	}

	t.Run("returns 200 with a token", func(t *testing.T) {
		accounts := &mockAccountService{
			AuthenticateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
				return user, nil
			},
		}
		body := bytes.NewBufferString(`{"email":"ada@example.com","password":"password123"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/account/login", body)
		w := httptest.NewRecorder()
		newAuthRouter(accounts, jwt).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var got AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.NotEmpty(t, got.Token)
	})

	t.Run("bad credentials are a 401", func(t *testing.T) {
		accounts := &mockAccountService{
			AuthenticateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
				return nil, service.ErrInvalidCredentials
			},
		}
		body := bytes.NewBufferString(`{"email":"ada@example.com","password":"wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/account/login", body)
		w := httptest.NewRecorder()
		newAuthRouter(accounts, jwt).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password")
	})
}

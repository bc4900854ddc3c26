package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jmallek/cities-api/internal/api/shared"
	"github.com/jmallek/cities-api/internal/platform/logger"
	"github.com/jmallek/cities-api/internal/platform/metrics"
	"github.com/jmallek/cities-api/internal/service"
	"github.com/jmallek/cities-api/internal/service/auth"
	"github.com/jmallek/cities-api/internal/store"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	accountService service.AccountService
	jwtService     auth.JWTService
	metrics        metrics.Recorder
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	accountService service.AccountService,
	jwtService auth.JWTService,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *AuthHandler {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		accountService: accountService,
		jwtService:     jwtService,
		metrics:        recorder,
		validator:      validator.New(),
		logger:         logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/v1/account/register.
// A duplicate email is a 409; success is 201 with a freshly issued token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.accountService.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	issued, err := h.jwtService.GenerateToken(r.Context(), user)
	if err != nil {
		log.Error("failed to generate token after registration",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token")
		return
	}
	h.metrics.RecordTokenIssued()

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		DisplayName: issued.DisplayName,
		Email:       issued.Email,
		Token:       issued.Token,
		Expiration:  issued.ExpiresAt,
	})
}

// Login handles POST /api/v1/account/login.
// Bad credentials are a 401 with a deliberately vague message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.accountService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	issued, err := h.jwtService.GenerateToken(r.Context(), user)
	if err != nil {
		log.Error("failed to generate token after login",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token")
		return
	}
	h.metrics.RecordTokenIssued()

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		DisplayName: issued.DisplayName,
		Email:       issued.Email,
		Token:       issued.Token,
		Expiration:  issued.ExpiresAt,
	})
}

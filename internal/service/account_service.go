package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmallek/cities-api/internal/domain"
	"github.com/jmallek/cities-api/internal/platform/logger"
	"github.com/jmallek/cities-api/internal/service/auth"
	"github.com/jmallek/cities-api/internal/store"
)

// AccountService provides user registration and credential verification.
type AccountService interface {
	// Register creates a new user account.
	// Returns store.ErrEmailExists if the email address is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Register(ctx context.Context, email, displayName, password string) (*domain.User, error)

	// Authenticate verifies an email/password pair and returns the matching
	// user. Returns ErrInvalidCredentials when either the email is unknown or
	// the password does not match.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// accountServiceImpl implements the AccountService interface
type accountServiceImpl struct {
	userStore        store.UserStore
	passwordVerifier auth.PasswordVerifier
	db               *sql.DB
	logger           *slog.Logger
}

// NewAccountService creates a new AccountService.
// It returns an error if any of the required dependencies are nil.
func NewAccountService(
	userStore store.UserStore,
	passwordVerifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) (AccountService, error) {
	if userStore == nil {
		return nil, fmt.Errorf("%w: userStore cannot be nil", domain.ErrValidation)
	}
	if passwordVerifier == nil {
		return nil, fmt.Errorf("%w: passwordVerifier cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &accountServiceImpl{
		userStore:        userStore,
		passwordVerifier: passwordVerifier,
		db:               db,
		logger:           logger.With(slog.String("component", "account_service")),
	}, nil
}

// Register implements AccountService.Register
// It creates the user within a transaction; the store hashes the password.
func (s *accountServiceImpl) Register(
	ctx context.Context,
	email, displayName, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, displayName, password)
	if err != nil {
		log.Warn("user validation failed during registration",
			slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register with existing email")
			return nil, store.ErrEmailExists
		}
		log.Error("failed to register user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate implements AccountService.Authenticate
// An unknown email and a wrong password both produce ErrInvalidCredentials so
// the response does not reveal which accounts exist.
func (s *accountServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user during login",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := s.passwordVerifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password",
			slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	log.Info("user authenticated", slog.String("user_id", user.ID.String()))
	return user, nil
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmallek/cities-api/internal/config"
	"github.com/jmallek/cities-api/internal/platform/metrics"
	"github.com/jmallek/cities-api/internal/platform/postgres"
	"github.com/jmallek/cities-api/internal/service"
	"github.com/jmallek/cities-api/internal/service/auth"
	"github.com/jmallek/cities-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	cityStore store.CityStore

	// Service interfaces
	jwtService     auth.JWTService
	accountService service.AccountService
	cityService    service.CityService

	// Observability
	registry *prometheus.Registry
	metrics  *metrics.Collector
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// The token issuer validates its configuration up front: a short signing
	// key, a non-positive lifetime, or a blank issuer/audience aborts startup.
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"issuer", cfg.Auth.Issuer)

	app.registry = prometheus.NewRegistry()
	app.metrics = metrics.NewCollector(app.registry)

	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, logger)
	app.cityStore = postgres.NewPostgresCityStore(db, logger)

	app.accountService, err = service.NewAccountService(
		app.userStore,
		auth.NewBcryptVerifier(),
		db,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	app.cityService, err = service.NewCityService(
		app.cityStore,
		db,
		app.metrics,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create city service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

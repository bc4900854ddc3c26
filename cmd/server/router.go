package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jmallek/cities-api/internal/api"
	apimiddleware "github.com/jmallek/cities-api/internal/api/middleware"
	"github.com/jmallek/cities-api/internal/platform/metrics"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(apimiddleware.MetricsMiddleware(app.metrics))

	authHandler := api.NewAuthHandler(
		app.accountService,
		app.jwtService,
		app.metrics,
		app.logger,
	)
	cityHandler := api.NewCityHandler(app.cityService, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService, app.metrics)

	// Account endpoints (public)
	r.Route("/api/v1/account", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// City endpoints require a valid bearer token. The unversioned path
	// serves the v1 shape; /api/v{version}/cities selects the projection.
	cityRoutes := func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/", cityHandler.ListCities)
		r.Post("/", cityHandler.AddCity)
		r.Get("/{cityID}", cityHandler.GetCity)
		r.Put("/{cityID}", cityHandler.UpdateCity)
		r.Delete("/{cityID}", cityHandler.DeleteCity)
	}
	r.Route("/api/cities", cityRoutes)
	r.Route("/api/v{version}/cities", cityRoutes)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Prometheus scrape endpoint
	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.registry))

	return r
}

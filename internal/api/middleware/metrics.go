package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jmallek/cities-api/internal/platform/metrics"
)

// MetricsMiddleware records request counts and latencies for every route.
// Uses chi's WrapResponseWriter to capture the status code written by the
// downstream handler.
func MetricsMiddleware(recorder metrics.Recorder) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			recorder.RecordRequest(r.Method, routePattern(r), ww.Status(), time.Since(start))
		})
	}
}

// routePattern labels metrics with the chi route pattern rather than the
// concrete URL, which would explode label cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

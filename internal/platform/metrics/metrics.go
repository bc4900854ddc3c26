// Package metrics provides Prometheus metric collection and exposition for
// the HTTP API and the token service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the HTTP middleware and services use to record
// metrics. It exists so handlers can be tested without a live registry.
type Recorder interface {
	RecordRequest(method, route string, statusCode int, duration time.Duration)
	RecordTokenIssued()
	RecordTokenRejected(reason string)
	RecordConflictRetry()
}

// Collector implements Recorder backed by a Prometheus registry.
type Collector struct {
	requests        *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	tokensIssued    prometheus.Counter
	tokensRejected  *prometheus.CounterVec
	conflictRetries prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with the given
// registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cities_api_requests_total",
			Help: "Total HTTP requests by method, route, and status code",
		}, []string{"method", "route", "status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cities_api_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cities_api_tokens_issued_total",
			Help: "Total access tokens issued",
		}),
		tokensRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cities_api_tokens_rejected_total",
			Help: "Total token validation failures by reason",
		}, []string{"reason"}),
		conflictRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cities_api_conflict_retries_total",
			Help: "Total optimistic concurrency conflicts that triggered a retry",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.tokensIssued,
		c.tokensRejected,
		c.conflictRetries,
	)

	return c
}

// Ensure Collector implements the Recorder interface
var _ Recorder = (*Collector)(nil)

// RecordRequest records a completed HTTP request.
func (c *Collector) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.requestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTokenIssued records a successful token issuance.
func (c *Collector) RecordTokenIssued() {
	c.tokensIssued.Inc()
}

// RecordTokenRejected records a failed token validation with its reason.
func (c *Collector) RecordTokenRejected(reason string) {
	c.tokensRejected.WithLabelValues(reason).Inc()
}

// RecordConflictRetry records an optimistic concurrency conflict retry.
func (c *Collector) RecordConflictRetry() {
	c.conflictRetries.Inc()
}

// Handler returns the HTTP handler that serves the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NopRecorder is a Recorder that discards everything. Useful in tests and as
// a default when metrics are not wired up.
type NopRecorder struct{}

var _ Recorder = NopRecorder{}

func (NopRecorder) RecordRequest(string, string, int, time.Duration) {}
func (NopRecorder) RecordTokenIssued()                               {}
func (NopRecorder) RecordTokenRejected(string)                       {}
func (NopRecorder) RecordConflictRetry()                             {}

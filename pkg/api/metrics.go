package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Engine operation metrics
	engineOperationsTotal   *prometheus.CounterVec
	engineOperationDuration *prometheus.HistogramVec

	// Commit compare-and-set metrics
	commitTotal *prometheus.CounterVec

	// Engine size metrics
	fileSizeBytes  prometheus.Gauge
	versionsServed prometheus.Counter

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aodb_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aodb_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "aodb_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		engineOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aodb_engine_operations_total",
				Help: "Total number of engine operations (set, del, get, has, commit)",
			},
			[]string{"operation", "status"},
		),

		engineOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aodb_engine_operation_duration_seconds",
				Help:    "Engine operation duration in seconds, including append/flush",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		commitTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aodb_commit_total",
				Help: "Total number of compare-and-set commit attempts",
			},
			[]string{"result"}, // "success" or "conflict"
		),

		fileSizeBytes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "aodb_file_size_bytes",
				Help: "Current size of the on-disk log (and mmap, if enabled)",
			},
		),

		versionsServed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aodb_versions_served_total",
				Help: "Total number of distinct version identifiers returned to callers",
			},
		),

		authRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aodb_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		healthChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aodb_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordEngineOperation records a set/del/get/has/commit engine call.
func (m *Metrics) RecordEngineOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.engineOperationsTotal.WithLabelValues(operation, status).Inc()
	m.engineOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCommit records a commit compare-and-set outcome.
func (m *Metrics) RecordCommit(success bool) {
	result := "success"
	if !success {
		result = "conflict"
	}
	m.commitTotal.WithLabelValues(result).Inc()
}

// UpdateFileSize updates the current on-disk log size.
func (m *Metrics) UpdateFileSize(size int64) {
	m.fileSizeBytes.Set(float64(size))
}

// RecordVersionServed counts one version identifier handed back to a caller.
func (m *Metrics) RecordVersionServed() {
	m.versionsServed.Inc()
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			hasAPIKey := apiKey != ""

			next(h).ServeHTTP(w, r)

			if rw, ok := w.(*responseWriter); ok {
				success := rw.statusCode != http.StatusUnauthorized
				if hasAPIKey {
					m.RecordAuthRequest(success)
				}
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics instruments an HTTP server with a request counter, a request
// duration histogram (both labeled by method, path and status) and an
// in-flight gauge.
type HTTPMetrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	buckets          []float64
}

// HTTPOption configures HTTPMetrics.
type HTTPOption func(*HTTPMetrics)

// WithHTTPBuckets overrides the duration histogram's buckets.
func WithHTTPBuckets(buckets []float64) HTTPOption {
	return func(m *HTTPMetrics) { m.buckets = buckets }
}

// NewHTTPMetrics creates and registers the HTTP metric set on reg:
//
//   - http_requests_total              (counter vec: method, path, status)
//   - http_request_duration_seconds    (histogram vec: method, path, status)
//   - http_requests_in_flight          (gauge)
func NewHTTPMetrics(reg *Registry, opts ...HTTPOption) *HTTPMetrics {
	m := &HTTPMetrics{buckets: DefaultHistogramBuckets}

	for _, opt := range opts {
		opt(m)
	}

	labels := []string{"method", "path", "status"}
	m.requestsTotal = reg.NewCounterVec(
		"http_requests_total",
		"Total number of HTTP requests processed.",
		labels,
	)
	m.requestDuration = reg.NewHistogramVec(
		"http_request_duration_seconds",
		"Duration of HTTP requests in seconds.",
		labels,
		m.buckets,
	)
	m.requestsInFlight = reg.NewGauge(
		"http_requests_in_flight",
		"Number of HTTP requests currently being processed.",
	)

	return m
}

// RequestsTotal exposes the request counter for call sites that record
// requests outside the middleware.
func (m *HTTPMetrics) RequestsTotal() *prometheus.CounterVec {
	return m.requestsTotal
}

// RequestDuration exposes the duration histogram.
func (m *HTTPMetrics) RequestDuration() *prometheus.HistogramVec {
	return m.requestDuration
}

// RequestsInFlight exposes the in-flight gauge.
//
//nolint:ireturn // prometheus.Gauge has no exported concrete type
func (m *HTTPMetrics) RequestsInFlight() prometheus.Gauge {
	return m.requestsInFlight
}

// statusRecorder captures the response status code, defaulting to 200 when
// the handler writes a body without calling WriteHeader.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.written {
		rec.status = code
		rec.written = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(data []byte) (int, error) {
	rec.written = true
	//nolint:wrapcheck // transparent proxy
	return rec.ResponseWriter.Write(data)
}

// Middleware wraps next with request count, duration and in-flight
// instrumentation.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, req)
		elapsed := time.Since(start).Seconds()

		status := strconv.Itoa(rec.status)
		m.requestsTotal.WithLabelValues(req.Method, req.URL.Path, status).Inc()
		m.requestDuration.WithLabelValues(req.Method, req.URL.Path, status).Observe(elapsed)
	})
}

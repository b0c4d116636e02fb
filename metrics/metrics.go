// Package metrics wraps a Prometheus registry with convenience factories
// for the metric sets the kvcache server exposes: the instrumented cache
// engine decorator and the HTTP request instrumentation, plus optional
// process and Go runtime collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry wraps a prometheus.Registry with a configured namespace and
// subsystem applied to every metric created through it.
type Registry struct {
	reg       *prometheus.Registry
	namespace string
	subsystem string
}

// Option configures the Registry.
type Option func(*Registry)

// New creates a Registry with the given options.
func New(opts ...Option) *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithNamespace prefixes every metric created through the registry with ns
// (e.g. "kvcache").
func WithNamespace(ns string) Option {
	return func(r *Registry) { r.namespace = ns }
}

// WithSubsystem adds a subsystem segment between the namespace and the
// metric name.
func WithSubsystem(sub string) Option {
	return func(r *Registry) { r.subsystem = sub }
}

// WithProcessCollector registers OS process metrics (open FDs, RSS, CPU
// seconds) on the registry.
func WithProcessCollector() Option {
	return func(r *Registry) {
		r.reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
}

// WithGoCollector registers Go runtime metrics (goroutines, GC, heap) on
// the registry.
func WithGoCollector() Option {
	return func(r *Registry) {
		r.reg.MustRegister(collectors.NewGoCollector())
	}
}

// PrometheusRegistry returns the underlying *prometheus.Registry for
// libraries that need it directly.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.reg
}

func (r *Registry) opts(name, help string) prometheus.Opts {
	return prometheus.Opts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      name,
		Help:      help,
	}
}

// DefaultHistogramBuckets are the buckets used when a histogram factory is
// given nil, matching prometheus.DefBuckets.
var DefaultHistogramBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

func (r *Registry) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	if buckets == nil {
		buckets = DefaultHistogramBuckets
	}
	return prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
}

// NewCounter creates, registers and returns a counter.
//
//nolint:ireturn // prometheus.Counter has no exported concrete type
func (r *Registry) NewCounter(name, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts(r.opts(name, help)))
	r.reg.MustRegister(c)
	return c
}

// NewCounterVec creates, registers and returns a labeled counter.
func (r *Registry) NewCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts(r.opts(name, help)), labels)
	r.reg.MustRegister(c)
	return c
}

// NewGauge creates, registers and returns a gauge.
//
//nolint:ireturn // prometheus.Gauge has no exported concrete type
func (r *Registry) NewGauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts(r.opts(name, help)))
	r.reg.MustRegister(g)
	return g
}

// NewGaugeVec creates, registers and returns a labeled gauge.
func (r *Registry) NewGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts(r.opts(name, help)), labels)
	r.reg.MustRegister(g)
	return g
}

// NewHistogram creates, registers and returns a histogram. Nil buckets
// select DefaultHistogramBuckets.
//
//nolint:ireturn // prometheus.Histogram has no exported concrete type
func (r *Registry) NewHistogram(name, help string, buckets []float64) prometheus.Histogram {
	h := prometheus.NewHistogram(r.histogramOpts(name, help, buckets))
	r.reg.MustRegister(h)
	return h
}

// NewHistogramVec creates, registers and returns a labeled histogram. Nil
// buckets select DefaultHistogramBuckets.
func (r *Registry) NewHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(r.histogramOpts(name, help, buckets), labels)
	r.reg.MustRegister(h)
	return h
}

// Handler returns an http.Handler serving the registry's metrics in
// Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Handler returns an http.Handler serving reg's metrics, as a standalone
// convenience for call sites that hold the registry by value.
func Handler(reg *Registry) http.Handler {
	return reg.Handler()
}

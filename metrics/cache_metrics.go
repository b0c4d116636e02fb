package metrics

import (
	"time"

	"github.com/kvcache-dev/kvcache/cache"
	"github.com/kvcache-dev/kvcache/stats"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// CacheMetrics holds the Prometheus metrics for a cache. It is embedded inside
// InstrumentedEngine but can also be used standalone for manual instrumentation.
type CacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	sets      prometheus.Counter
	deletes   prometheus.Counter
	evictions prometheus.Counter
	size      prometheus.Gauge
	latency   prometheus.Histogram
}

// CacheOption configures cache metrics.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	buckets []float64
}

// cacheLatencyBuckets are sensible defaults for cache operation latency,
// skewed toward sub-millisecond ranges since cache lookups are typically fast.
var cacheLatencyBuckets = []float64{
	0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5,
}

// WithCacheBuckets overrides the default histogram buckets for cache
// operation latency tracking.
func WithCacheBuckets(buckets []float64) CacheOption {
	return func(cfg *cacheConfig) {
		cfg.buckets = buckets
	}
}

// newCacheMetrics creates and registers cache metrics on the given Registry.
func newCacheMetrics(reg *Registry, name string, cfg *cacheConfig) *CacheMetrics {
	return &CacheMetrics{
		hits:    reg.NewCounter(name+"_hits_total", "Total number of cache hits."),
		misses:  reg.NewCounter(name+"_misses_total", "Total number of cache misses."),
		sets:    reg.NewCounter(name+"_sets_total", "Total number of cache set operations."),
		deletes: reg.NewCounter(name+"_deletes_total", "Total number of cache delete operations."),
		evictions: reg.NewCounter(
			name+"_evictions_total",
			"Total number of cache evictions.",
		),
		size: reg.NewGauge(name+"_size", "Current number of items in the cache."),
		latency: reg.NewHistogram(
			name+"_operation_duration_seconds",
			"Duration of cache operations in seconds.",
			cfg.buckets,
		),
	}
}

// RecordEviction records a single cache eviction event.
func (cm *CacheMetrics) RecordEviction() {
	cm.evictions.Inc()
}

// SetSize sets the current number of items in the cache.
func (cm *CacheMetrics) SetSize(size float64) {
	cm.size.Set(size)
}

// HitRatio computes the current hit ratio as hits / (hits + misses).
// Returns 0 if no lookups have been recorded. For dashboards prefer
// rate-based PromQL expressions.
func (cm *CacheMetrics) HitRatio() float64 {
	hits := readCounter(cm.hits)
	misses := readCounter(cm.misses)
	total := hits + misses

	if total == 0 {
		return 0
	}

	return hits / total
}

// readCounter extracts the current value from a prometheus.Counter.
func readCounter(counter prometheus.Counter) float64 {
	var metric prometheus.Metric = counter
	dtoMetric := &dto.Metric{}

	if err := metric.Write(dtoMetric); err != nil {
		return 0
	}

	return dtoMetric.GetCounter().GetValue()
}

// InstrumentedEngine wraps a cache.Engine with automatic Prometheus
// instrumentation. Get/Set/Delete/Clear calls are transparently measured;
// this is additive observability layered on top of the engine's own
// Stats snapshot, not a replacement for it.
type InstrumentedEngine struct {
	inner   *cache.Engine
	Metrics *CacheMetrics
}

// NewInstrumentedEngine wraps an existing cache.Engine with Prometheus
// instrumentation. name is used as a prefix for all metric names.
//
// Metrics registered:
//
//   - <name>_hits_total                  (counter)   — cache hits
//   - <name>_misses_total                (counter)   — cache misses
//   - <name>_sets_total                  (counter)   — set operations
//   - <name>_deletes_total               (counter)   — delete operations
//   - <name>_evictions_total             (counter)   — evictions, read from the engine's own Stats
//   - <name>_size                        (gauge)     — current key count
//   - <name>_operation_duration_seconds  (histogram) — operation latency
func NewInstrumentedEngine(
	reg *Registry,
	name string,
	inner *cache.Engine,
	opts ...CacheOption,
) *InstrumentedEngine {
	cfg := &cacheConfig{
		buckets: cacheLatencyBuckets,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cacheMetrics := newCacheMetrics(reg, name, cfg)
	cacheMetrics.size.Set(float64(inner.Size()))

	return &InstrumentedEngine{
		inner:   inner,
		Metrics: cacheMetrics,
	}
}

// Get retrieves a value from the cache, automatically recording a hit or
// miss and observing the operation latency.
func (ie *InstrumentedEngine) Get(key string) (any, bool) {
	start := time.Now()
	value, found := ie.inner.Get(key)
	elapsed := time.Since(start).Seconds()

	ie.Metrics.latency.Observe(elapsed)

	if found {
		ie.Metrics.hits.Inc()
	} else {
		ie.Metrics.misses.Inc()
	}

	return value, found
}

// Set adds a value to the cache, recording a set operation, observing
// latency, updating the size gauge, and surfacing any evictions the set
// triggered.
func (ie *InstrumentedEngine) Set(key string, value any, ttlOpt cache.TTLOption) {
	before := ie.inner.Stats().Evictions

	start := time.Now()
	ie.inner.Set(key, value, ttlOpt)
	elapsed := time.Since(start).Seconds()

	ie.Metrics.sets.Inc()
	ie.Metrics.latency.Observe(elapsed)

	after := ie.inner.Stats().Evictions
	for n := before; n < after; n++ {
		ie.Metrics.RecordEviction()
	}

	ie.Metrics.size.Set(float64(ie.inner.Size()))
}

// Delete removes a key from the cache, recording a delete operation and
// updating the size gauge.
func (ie *InstrumentedEngine) Delete(key string) bool {
	ok := ie.inner.Delete(key)
	ie.Metrics.deletes.Inc()
	ie.Metrics.size.Set(float64(ie.inner.Size()))
	return ok
}

// Size returns the current number of keys in the cache.
func (ie *InstrumentedEngine) Size() int {
	return ie.inner.Size()
}

// Clear removes all items from the cache and resets the size gauge to 0.
func (ie *InstrumentedEngine) Clear() {
	ie.inner.Clear()
	ie.Metrics.size.Set(0)
}

// Exists reports residency without affecting hit/miss counters, per the
// engine's own semantics; it is not separately instrumented beyond latency.
func (ie *InstrumentedEngine) Exists(key string) bool {
	start := time.Now()
	ok := ie.inner.Exists(key)
	ie.Metrics.latency.Observe(time.Since(start).Seconds())
	return ok
}

// Increment delegates to the engine, observing latency and refreshing the
// size gauge since it may insert a new key.
func (ie *InstrumentedEngine) Increment(key string, amount float64) (float64, error) {
	start := time.Now()
	next, err := ie.inner.Increment(key, amount)
	ie.Metrics.latency.Observe(time.Since(start).Seconds())
	ie.Metrics.size.Set(float64(ie.inner.Size()))
	return next, err
}

// UpdateTTL delegates to the engine.
func (ie *InstrumentedEngine) UpdateTTL(key string, ttlMs int64) bool {
	return ie.inner.UpdateTTL(key, ttlMs)
}

// BatchSet delegates to the engine, counting one set per entry and
// refreshing the size gauge once for the whole batch.
func (ie *InstrumentedEngine) BatchSet(entries []cache.BatchSetEntry) int {
	count := ie.inner.BatchSet(entries)
	for i := 0; i < count; i++ {
		ie.Metrics.sets.Inc()
	}
	ie.Metrics.size.Set(float64(ie.inner.Size()))
	return count
}

// BatchGet delegates to the engine, counting one hit or miss per requested
// key.
func (ie *InstrumentedEngine) BatchGet(keys []string) (map[string]any, int) {
	result, found := ie.inner.BatchGet(keys)
	ie.Metrics.hits.Add(float64(found))
	ie.Metrics.misses.Add(float64(len(keys) - found))
	return result, found
}

// BatchDelete delegates to the engine, counting one delete per key actually
// removed and refreshing the size gauge.
func (ie *InstrumentedEngine) BatchDelete(keys []string) []string {
	deleted := ie.inner.BatchDelete(keys)
	for range deleted {
		ie.Metrics.deletes.Inc()
	}
	ie.Metrics.size.Set(float64(ie.inner.Size()))
	return deleted
}

// Keys delegates to the engine.
func (ie *InstrumentedEngine) Keys(limit, offset int) ([]string, int) {
	return ie.inner.Keys(limit, offset)
}

// Stats delegates to the engine.
func (ie *InstrumentedEngine) Stats() stats.Snapshot {
	return ie.inner.Stats()
}

// ResetStats delegates to the engine.
func (ie *InstrumentedEngine) ResetStats() {
	ie.inner.ResetStats()
}

// MemoryUsagePercent delegates to the engine.
func (ie *InstrumentedEngine) MemoryUsagePercent() float64 {
	return ie.inner.MemoryUsagePercent()
}

// CleanupInterval delegates to the engine.
func (ie *InstrumentedEngine) CleanupInterval() time.Duration {
	return ie.inner.CleanupInterval()
}

// Engine returns the wrapped cache.Engine, for collaborators (such as the
// background sweeper) that operate on it directly.
func (ie *InstrumentedEngine) Engine() *cache.Engine {
	return ie.inner
}

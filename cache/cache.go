// Package cache implements the in-process key/value cache engine: the
// primary map, memory accounting, TTL enforcement and the composition of a
// replacement policy and statistics tracker behind a single exclusive
// lock. Every public method is a short critical section that performs no
// I/O and calls no user code.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/kvcache-dev/kvcache/policy"
	"github.com/kvcache-dev/kvcache/stats"
	"github.com/kvcache-dev/kvcache/ttl"
)

// Engine is the cache engine. The zero value is not usable; construct one
// with New.
type Engine struct {
	mu sync.Mutex

	policyKind      policy.Kind
	policy          policy.Policy
	maxKeys         int
	maxBytes        int64
	threshold       int64
	cleanupInterval time.Duration
	clock           ttl.Clock

	entries      map[string]*entry
	currentBytes int64

	stats *stats.Tracker
}

// New constructs an Engine with the given options applied over the
// defaults in DefaultPolicy/DefaultMaxMemoryMB/DefaultMaxKeys/
// DefaultCleanupInterval.
func New(opts ...Option) *Engine {
	e := &Engine{
		policyKind:      DefaultPolicy,
		maxKeys:         DefaultMaxKeys,
		maxBytes:        DefaultMaxMemoryMB * bytesPerMB,
		cleanupInterval: DefaultCleanupInterval,
		clock:           ttl.SystemClock(),
		entries:         make(map[string]*entry),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.threshold = e.maxBytes * 9 / 10
	e.policy = policy.New(e.policyKind, e.maxKeys)
	e.stats = stats.New(e.clock)

	return e
}

// CleanupInterval returns the configured sweeper tick period.
func (e *Engine) CleanupInterval() time.Duration {
	return e.cleanupInterval
}

// Get looks up key, promoting it under LRU/LFU and recording a hit or
// miss. A live entry found expired is removed and counted as a miss plus
// an expiration.
func (e *Engine) Get(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.getLocked(key)
}

func (e *Engine) getLocked(key string) (any, bool) {
	if e.maxKeys == 0 {
		e.stats.RecordMiss()
		return nil, false
	}

	ent, ok := e.entries[key]
	if !ok {
		e.stats.RecordMiss()
		return nil, false
	}

	if ttl.Expired(e.clock, ent.expiresAt) {
		e.expireLocked(key)
		e.stats.RecordMiss()
		return nil, false
	}

	e.policy.Get(key)
	e.stats.RecordHit()
	return ent.value, true
}

// Exists reports residency without affecting hit/miss counters. It still
// honors lazy expiration.
func (e *Engine) Exists(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.maxKeys == 0 {
		return false
	}

	ent, ok := e.entries[key]
	if !ok {
		return false
	}

	if ttl.Expired(e.clock, ent.expiresAt) {
		e.expireLocked(key)
		return false
	}

	e.policy.Get(key)
	return true
}

// TTLOption carries an optional TTL in milliseconds for Set.
type TTLOption struct {
	Millis int64
	Set    bool
}

// Set inserts or updates key. When ttlOpt.Set is false the entry never
// expires; a prior TTL on an existing key is cleared.
func (e *Engine) Set(key string, value any, ttlOpt TTLOption) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setLocked(key, value, ttlOpt)
}

func (e *Engine) setLocked(key string, value any, ttlOpt TTLOption) {
	if e.maxKeys == 0 {
		return
	}

	size := entrySize(key, value)

	for e.currentBytes+int64(size) > e.threshold && len(e.entries) > 0 {
		victim, ok := e.policy.Evict()
		if !ok {
			break
		}
		e.dropEntry(victim)
		e.stats.RecordEviction()
	}

	var expiresAt time.Time
	if ttlOpt.Set {
		expiresAt = ttl.ExpiresAt(e.clock, ttlOpt.Millis)
	}

	if existing, ok := e.entries[key]; ok {
		e.currentBytes -= int64(existing.size)
		existing.value = value
		existing.expiresAt = expiresAt
		existing.size = size
		e.currentBytes += int64(size)
		e.policy.Set(key)
		return
	}

	e.entries[key] = &entry{value: value, expiresAt: expiresAt, size: size}
	e.currentBytes += int64(size)

	if victim, evicted := e.policy.Set(key); evicted {
		e.dropEntry(victim)
		e.stats.RecordEviction()
	}
}

// Delete removes key if present. It does not count toward evictions.
func (e *Engine) Delete(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.entries[key]; !ok {
		return false
	}
	e.dropEntry(key)
	e.policy.Delete(key)
	return true
}

// Increment adds amount to the numeric value under key, creating it with
// value amount if absent. It returns ErrNotNumeric, leaving state
// unchanged, if the existing value is not a number. This reuses Get then
// Set internally, so it deliberately records one underlying GET and one
// SET in the statistics, matching the engine's observable double-count.
func (e *Engine) Increment(key string, amount float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.getLocked(key)
	if !ok {
		e.setLocked(key, amount, TTLOption{})
		return amount, nil
	}

	n, isNumber := toFloat64(current)
	if !isNumber {
		return 0, ErrNotNumeric
	}

	next := n + amount
	e.setLocked(key, next, TTLOption{})
	return next, nil
}

// UpdateTTL rewrites the expiration instant for an existing, live key.
// It returns false if the key is absent or already expired.
func (e *Engine) UpdateTTL(key string, ttlMs int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.entries[key]
	if !ok {
		return false
	}

	if ttl.Expired(e.clock, ent.expiresAt) {
		e.expireLocked(key)
		return false
	}

	ent.expiresAt = ttl.ExpiresAt(e.clock, ttlMs)
	return true
}

// BatchSetEntry is one element of a BatchSet call.
type BatchSetEntry struct {
	Key   string
	Value any
	TTL   TTLOption
}

// BatchSet applies Set to each entry in order and returns the count
// applied. There is no atomicity across the batch.
func (e *Engine) BatchSet(entries []BatchSetEntry) int {
	count := 0
	for _, ent := range entries {
		e.Set(ent.Key, ent.Value, ent.TTL)
		count++
	}
	return count
}

// BatchGet applies Get to each key in order, returning the values found
// and how many were found.
func (e *Engine) BatchGet(keys []string) (map[string]any, int) {
	result := make(map[string]any, len(keys))
	found := 0
	for _, k := range keys {
		if v, ok := e.Get(k); ok {
			result[k] = v
			found++
		}
	}
	return result, found
}

// BatchDelete applies Delete to each key in order, returning the subset
// that was actually removed.
func (e *Engine) BatchDelete(keys []string) []string {
	deleted := make([]string, 0, len(keys))
	for _, k := range keys {
		if e.Delete(k) {
			deleted = append(deleted, k)
		}
	}
	return deleted
}

// Keys returns a snapshot slice of resident keys in [offset, offset+limit),
// stable within this call.
func (e *Engine) Keys(limit, offset int) ([]string, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	all := make([]string, 0, len(e.entries))
	for k := range e.entries {
		all = append(all, k)
	}
	sort.Strings(all)

	total := len(all)
	if offset >= total {
		return []string{}, total
	}
	end := offset + limit
	if end > total || end < offset {
		end = total
	}
	return all[offset:end], total
}

// Clear drops every entry and the policy state. Statistics are untouched.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.entries = make(map[string]*entry)
	e.policy.Clear()
	e.currentBytes = 0
}

// Size returns the number of resident keys.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}

// MemoryUsagePercent returns currentBytes as a percentage of maxBytes.
func (e *Engine) MemoryUsagePercent() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.maxBytes == 0 {
		return 0
	}
	return float64(e.currentBytes) / float64(e.maxBytes) * 100
}

// Stats returns a snapshot of the operational counters.
func (e *Engine) Stats() stats.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.Snapshot()
}

// ResetStats zeros the operational counters without touching any entry.
func (e *Engine) ResetStats() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.Reset()
}

// DrainExpired removes every currently expired entry. It snapshots the
// resident key set once, then walks it in bounded chunks, releasing the
// engine lock between chunks so a large cache doesn't starve concurrent
// callers. It returns the number of entries removed.
func (e *Engine) DrainExpired(chunkSize int) int {
	if chunkSize <= 0 {
		chunkSize = 1000
	}

	e.mu.Lock()
	snapshot := make([]string, 0, len(e.entries))
	for k := range e.entries {
		snapshot = append(snapshot, k)
	}
	e.mu.Unlock()

	removed := 0
	for start := 0; start < len(snapshot); start += chunkSize {
		end := start + chunkSize
		if end > len(snapshot) {
			end = len(snapshot)
		}

		e.mu.Lock()
		for _, k := range snapshot[start:end] {
			ent, ok := e.entries[k]
			if !ok {
				continue
			}
			if ttl.Expired(e.clock, ent.expiresAt) {
				e.expireLocked(k)
				removed++
			}
		}
		e.mu.Unlock()
	}

	return removed
}

// expireLocked removes key as a TTL expiration. Caller holds e.mu.
func (e *Engine) expireLocked(key string) {
	e.dropEntry(key)
	e.policy.Delete(key)
	e.stats.RecordExpiration()
}

// dropEntry removes key from the primary map and adjusts currentBytes.
// It does not touch the policy; callers that remove a key selected by the
// policy (eviction, explicit delete, expiration) are responsible for that
// separately since the policy has usually already removed its own node.
func (e *Engine) dropEntry(key string) {
	if ent, ok := e.entries[key]; ok {
		e.currentBytes -= int64(ent.size)
		delete(e.entries, key)
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Package stats tracks the cache engine's operational counters. Tracker is
// not safe for concurrent use on its own: the engine serializes access to
// it under its own lock, matching the single-writer model the counters are
// specified against.
package stats

import (
	"time"

	"github.com/kvcache-dev/kvcache/ttl"
)

// window is the rolling interval over which ops/sec is computed.
const window = 10 * time.Second

// Snapshot is a point-in-time read of the tracked counters, suitable for
// JSON encoding at the API boundary.
type Snapshot struct {
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	Evictions   uint64  `json:"evictions"`
	Expirations uint64  `json:"expirations"`
	HitRate     float64 `json:"hitRate"`
	OpsPerSec   int     `json:"opsPerSec"`
}

// Tracker accumulates hit/miss/eviction/expiration counters and a rolling
// ops/sec window. All methods assume the caller holds whatever lock
// protects the rest of the cache engine's state.
type Tracker struct {
	clock ttl.Clock

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64

	// ops buffers timestamps of hit/miss operations within the last
	// window, oldest first, for the rolling ops/sec calculation.
	ops []time.Time
}

// New creates a Tracker whose rolling window is timed by clock.
func New(clock ttl.Clock) *Tracker {
	return &Tracker{clock: clock}
}

// RecordHit records a successful GET read, including the read INCREMENT
// performs. EXISTS does not record hits.
func (t *Tracker) RecordHit() {
	t.hits++
	t.recordOp()
}

// RecordMiss records an unsuccessful GET read, including the read INCREMENT
// performs. EXISTS does not record misses.
func (t *Tracker) RecordMiss() {
	t.misses++
	t.recordOp()
}

// RecordEviction records one capacity-driven removal.
func (t *Tracker) RecordEviction() {
	t.evictions++
}

// RecordExpiration records one TTL-driven removal, lazy or eager.
func (t *Tracker) RecordExpiration() {
	t.expirations++
}

func (t *Tracker) recordOp() {
	now := t.clock()
	cutoff := now.Add(-window)

	i := 0
	for ; i < len(t.ops); i++ {
		if t.ops[i].After(cutoff) {
			break
		}
	}
	t.ops = append(t.ops[i:], now)
}

// Snapshot returns the current counters, hit rate and ops/sec.
func (t *Tracker) Snapshot() Snapshot {
	t.pruneOps()

	var hitRate float64
	if total := t.hits + t.misses; total > 0 {
		hitRate = round2(float64(t.hits) / float64(total) * 100)
	}

	opsPerSec := int(float64(len(t.ops))/window.Seconds() + 0.5)

	return Snapshot{
		Hits:        t.hits,
		Misses:      t.misses,
		Evictions:   t.evictions,
		Expirations: t.expirations,
		HitRate:     hitRate,
		OpsPerSec:   opsPerSec,
	}
}

func (t *Tracker) pruneOps() {
	cutoff := t.clock().Add(-window)
	i := 0
	for ; i < len(t.ops); i++ {
		if t.ops[i].After(cutoff) {
			break
		}
	}
	t.ops = t.ops[i:]
}

// Reset zeros all counters and empties the rolling window. It does not
// touch any cache entry.
func (t *Tracker) Reset() {
	t.hits = 0
	t.misses = 0
	t.evictions = 0
	t.expirations = 0
	t.ops = nil
}

func round2(f float64) float64 {
	const p = 100
	return float64(int(f*p+0.5)) / p
}

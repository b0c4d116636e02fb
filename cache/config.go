package cache

import (
	"time"

	"github.com/kvcache-dev/kvcache/policy"
	"github.com/kvcache-dev/kvcache/ttl"
)

const bytesPerMB = 1 << 20

// Default configuration, matching the environment table's defaults.
const (
	DefaultPolicy          = policy.LRU
	DefaultMaxMemoryMB     = 512
	DefaultMaxKeys         = 100_000
	DefaultCleanupInterval = 60 * time.Second
)

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithPolicy sets the replacement policy. Default is LRU.
func WithPolicy(kind policy.Kind) Option {
	return func(e *Engine) { e.policyKind = kind }
}

// WithMaxMemoryMB sets the memory bound in megabytes. Default is 512.
func WithMaxMemoryMB(mb int) Option {
	return func(e *Engine) { e.maxBytes = int64(mb) * bytesPerMB }
}

// WithMaxKeys sets the key-count bound. 0 disables the cache: every SET
// becomes a no-op success and every GET a miss. Default is 100000.
func WithMaxKeys(n int) Option {
	return func(e *Engine) { e.maxKeys = n }
}

// WithCleanupInterval sets the background sweeper's tick period. Default
// is 60 seconds.
func WithCleanupInterval(d time.Duration) Option {
	return func(e *Engine) { e.cleanupInterval = d }
}

// WithClock overrides the engine's time source. Tests use this to pin
// time deterministically; production code defaults to ttl.SystemClock.
func WithClock(c ttl.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

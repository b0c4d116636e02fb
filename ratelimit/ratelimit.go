// Package ratelimit provides a per-client token-bucket rate limiter
// middleware for the webserver package, built on golang.org/x/time/rate.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/kvcache-dev/kvcache/webserver"
	"golang.org/x/time/rate"
)

// defaultMaxAge is how long an idle client's limiter is kept before the
// cleanup sweep reclaims it.
const defaultMaxAge = 5 * time.Minute

// defaultCleanupInterval is how often the cleanup sweep runs.
const defaultCleanupInterval = time.Minute

// KeyFunc extracts the rate-limit key (typically the client IP) from a
// request. The default uses the client IP reported by the context's
// RealIP, falling back to the request's RemoteAddr when that is empty.
type KeyFunc func(c webserver.Context) string

// Limiter enforces a requests-per-minute quota per key, keyed by client IP
// by default. Each key gets its own token bucket sized to admit bursts up
// to the per-minute quota; idle buckets are reclaimed periodically so the
// limiter's memory is bounded by recently active clients, not all clients
// ever seen.
type Limiter struct {
	ratePerSec float64
	burst      int
	keyFunc    KeyFunc

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter    *rate.Limiter
	lastSeenAt time.Time
}

// New builds a Limiter admitting perMinute requests per key, on average,
// with a burst equal to perMinute (a client may spend its whole minute's
// quota in one instant, then must wait for it to refill).
func New(perMinute int, opts ...Option) *Limiter {
	if perMinute <= 0 {
		perMinute = 1
	}

	l := &Limiter{
		ratePerSec: float64(perMinute) / 60,
		burst:      perMinute,
		keyFunc:    remoteAddrKey,
		buckets:    make(map[string]*bucket),
	}

	for _, opt := range opts {
		opt(l)
	}

	go l.cleanupLoop(defaultCleanupInterval)

	return l
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithKeyFunc overrides how the rate-limit key is derived from a request.
func WithKeyFunc(fn KeyFunc) Option {
	return func(l *Limiter) { l.keyFunc = fn }
}

func remoteAddrKey(c webserver.Context) string {
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return c.Request().RemoteAddr
}

// Allow reports whether the request identified by key may proceed right
// now, consuming one token if so.
func (l *Limiter) Allow(key string) bool {
	return l.bucketFor(key).limiter.Allow()
}

func (l *Limiter) bucketFor(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(l.ratePerSec), l.burst)}
		l.buckets[key] = b
	}
	b.lastSeenAt = time.Now()
	return b
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-defaultMaxAge)

		l.mu.Lock()
		for key, b := range l.buckets {
			if b.lastSeenAt.Before(cutoff) {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware returns a webserver.MiddlewareFunc that rejects requests over
// the configured quota with 429 and a JSON body, matching the error
// taxonomy's rate-limit class.
func (l *Limiter) Middleware() webserver.MiddlewareFunc {
	return func(next webserver.HandlerFunc) webserver.HandlerFunc {
		return func(c webserver.Context) error {
			key := l.keyFunc(c)
			if !l.Allow(key) {
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"error":   "rate limit exceeded",
					"success": false,
				})
			}
			return next(c)
		}
	}
}

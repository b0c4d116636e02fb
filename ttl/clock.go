// Package ttl provides the injectable time source and expiration helpers
// shared by the cache engine and the background sweeper.
package ttl

import "time"

// MaxMillis is the largest TTL, in milliseconds, the API boundary accepts.
const MaxMillis = 86_400_000

// Clock supplies the current time. Production code uses SystemClock;
// tests inject a fixed or steppable clock so TTL behavior is deterministic.
type Clock func() time.Time

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return time.Now
}

// ExpiresAt computes the absolute expiration instant ttlMs milliseconds
// from now according to clock.
func ExpiresAt(clock Clock, ttlMs int64) time.Time {
	return clock().Add(time.Duration(ttlMs) * time.Millisecond)
}

// Expired reports whether expiresAt names an instant at or before now. A
// zero expiresAt means "never expires".
func Expired(clock Clock, expiresAt time.Time) bool {
	if expiresAt.IsZero() {
		return false
	}
	return !clock().Before(expiresAt)
}

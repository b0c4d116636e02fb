package httpapi

import (
	"fmt"

	"github.com/kvcache-dev/kvcache/ttl"
)

const (
	minKeyBytes  = 1
	maxKeyBytes  = 256
	minBatchSize = 1
	maxBatchSize = 100
)

func validateKey(key string) error {
	n := len(key)
	if n < minKeyBytes || n > maxKeyBytes {
		return fmt.Errorf("key must be %d..%d bytes, got %d", minKeyBytes, maxKeyBytes, n)
	}
	return nil
}

func validateTTL(ttlMs int64) error {
	if ttlMs < 1 || ttlMs > ttl.MaxMillis {
		return fmt.Errorf("ttl must be in 1..%d milliseconds, got %d", ttl.MaxMillis, ttlMs)
	}
	return nil
}

func validateBatchSize(n int) error {
	if n < minBatchSize || n > maxBatchSize {
		return fmt.Errorf("batch size must be %d..%d, got %d", minBatchSize, maxBatchSize, n)
	}
	return nil
}

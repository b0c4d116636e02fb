// Package config builds the validated Config the kvcache server runs with,
// loaded from environment variables via configloader.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kvcache-dev/kvcache/configloader"
	"github.com/kvcache-dev/kvcache/logger"
	"github.com/kvcache-dev/kvcache/policy"
)

// Config is the full set of environment-tunable settings for the kvcache
// server. Field names and defaults match the environment variable table:
// an unprefixed, lower-cased env provider maps PORT -> Port,
// MAX_MEMORY_MB -> MaxMemoryMB, and so on.
type Config struct {
	Port               int    `koanf:"port"                  json:"port"`
	NodeEnv            string `koanf:"node_env"              json:"node_env"`
	EvictionPolicy     string `koanf:"eviction_policy"       json:"eviction_policy"`
	MaxMemoryMB        int    `koanf:"max_memory_mb"         json:"max_memory_mb"`
	MaxKeys            int    `koanf:"max_keys"              json:"max_keys"`
	CleanupIntervalMs  int    `koanf:"cleanup_interval_ms"   json:"cleanup_interval_ms"`
	LogLevel           string `koanf:"log_level"             json:"log_level"`
	EnableCompression  bool   `koanf:"enable_compression"    json:"enable_compression"`
	RateLimitPerMinute int    `koanf:"rate_limit_per_minute" json:"rate_limit_per_minute"`
	CORSOrigins        string `koanf:"cors_origins"          json:"cors_origins"`
}

// Defaults returns the configuration defaults from the environment table.
func Defaults() Config {
	return Config{
		Port:               3000,
		NodeEnv:            "development",
		EvictionPolicy:     string(policy.LRU),
		MaxMemoryMB:        512,
		MaxKeys:            100_000,
		CleanupIntervalMs:  60_000,
		LogLevel:           "info",
		EnableCompression:  true,
		RateLimitPerMinute: 100,
		CORSOrigins:        "http://localhost:5173",
	}
}

// Load builds a Config from Defaults overlaid by environment variables
// named verbatim after the fields (PORT, NODE_ENV, EVICTION_POLICY, ...),
// then validates it.
func Load() (Config, error) {
	loader := configloader.NewConfigLoader(
		configloader.WithDefaults(Defaults()),
		configloader.WithFlatEnv[Config](),
	)

	cfg, err := loader.Load()
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first invalid field found.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65_535 {
		return fmt.Errorf("config: PORT must be in 1..65535, got %d", c.Port)
	}
	if !policy.Kind(strings.ToUpper(c.EvictionPolicy)).Valid() {
		return fmt.Errorf("config: EVICTION_POLICY must be one of LRU, LFU, FIFO, got %q", c.EvictionPolicy)
	}
	if c.MaxMemoryMB <= 0 {
		return fmt.Errorf("config: MAX_MEMORY_MB must be positive, got %d", c.MaxMemoryMB)
	}
	if c.MaxKeys < 0 {
		return fmt.Errorf("config: MAX_KEYS must not be negative, got %d", c.MaxKeys)
	}
	if c.CleanupIntervalMs <= 0 {
		return fmt.Errorf("config: CLEANUP_INTERVAL_MS must be positive, got %d", c.CleanupIntervalMs)
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("config: LOG_LEVEL must be one of trace, debug, info, warn, warning, error, panic, got %q", c.LogLevel)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// Policy returns the configured eviction policy as a policy.Kind.
func (c Config) Policy() policy.Kind {
	return policy.Kind(strings.ToUpper(c.EvictionPolicy))
}

// CleanupInterval returns CleanupIntervalMs as a time.Duration.
func (c Config) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMs) * time.Millisecond
}

// IsProduction reports whether NodeEnv names the production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.NodeEnv, "production")
}

// CORSOriginList splits CORSOrigins into its comma-separated entries. A
// bare "*" is returned as a single-element slice meaning "allow all".
func (c Config) CORSOriginList() []string {
	if strings.TrimSpace(c.CORSOrigins) == "*" {
		return []string{"*"}
	}

	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

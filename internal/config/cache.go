package config

import "time"

// CacheConfig defines settings for the registration list cache.  When
// Enabled is false or no Redis client is configured, lists are always read
// from the document store.  TTL bounds how long a list may be served after
// a write that bypassed invalidation (for example a second instance whose
// Redis call failed).  Prefix namespaces the keys.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "ssems:cache"),
	}
	if cfg.TTL <= 0 {
		cfg.Enabled = false
	}
	return cfg
}

package recurrence

import (
	"log/slog"
	"time"
)

// Config holds planner configuration. The instance limits default to 10,
// matching the platform's long-standing ceiling on how many task rows a
// single recurring rule may materialize per planning call.
type Config struct {
	// DefaultMaxInstances applies when a PlanRequest leaves MaxInstances
	// unset. Callers can lower the limit per request but never raise it
	// above HardInstanceLimit.
	DefaultMaxInstances int
	HardInstanceLimit   int

	// Schedule caching. Safe because plans are deterministic in their
	// inputs; disable for memory-constrained embedders.
	CacheEnabled bool
	Cache        CacheConfig

	// Logger used for the zero-match fallback warning and plan debug
	// output. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig is the production configuration.
var DefaultConfig = Config{
	DefaultMaxInstances: 10,
	HardInstanceLimit:   10,
	CacheEnabled:        true,
	Cache:               DefaultCacheConfig,
}

// UncachedConfig disables schedule caching entirely.
var UncachedConfig = Config{
	DefaultMaxInstances: 10,
	HardInstanceLimit:   10,
	CacheEnabled:        false,
}

// DefaultCacheConfig provides sensible defaults for schedule caching.
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1024,
	CleanupInterval: 5 * time.Minute,
}

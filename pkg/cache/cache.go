// Package cache provides pluggable result caching for the repair pipeline.
//
// Repairs are deterministic, so a cached result is exactly as good as a fresh
// run. Keys are derived from the content hash of the input plus the rule-set
// version; a rule change therefore invalidates every previously cached repair
// without any explicit flush.
//
// Two backends are provided: FileCache for CLI usage and RedisCache for the
// API server. NullCache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// TTL values for cached repair results.
const (
	// TTLRepair bounds how long a repaired script stays cached. Results are
	// content-addressed, so the TTL exists only to bound storage growth.
	TTLRepair = 30 * 24 * time.Hour

	// TTLNever means no expiration.
	TTLNever time.Duration = 0
)

// Cache is the storage interface for repair results.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the key
	// was present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// RepairKeyOpts captures everything besides the input text that affects a
// repair result. Two runs with equal input hashes and equal opts are
// guaranteed to produce identical output.
type RepairKeyOpts struct {
	// Version is the rule-set version of the rewrite package.
	Version string `json:"version"`
}

// Keyer generates cache keys. Implementations must be deterministic: the
// same inputs always produce the same key.
type Keyer interface {
	// RepairKey generates a key for a repair result given the content hash
	// of the input source.
	RepairKey(inputHash string, opts RepairKeyOpts) string
}

// DefaultKeyer generates keys in the format "repair:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RepairKey generates a key for a repair result.
func (k *DefaultKeyer) RepairKey(inputHash string, opts RepairKeyOpts) string {
	return hashKey("repair", inputHash, opts)
}

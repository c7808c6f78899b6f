// Package cache stores render plans and artifacts between generations.
//
// Plans are keyed by the hash of the canonical request JSON, artifacts by
// the plan hash plus writer settings, so identical requests skip both the
// layout pass and the writer. Three backends implement [Cache]:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON entry per key under a local directory (CLI)
//   - [RedisCache]: shared cache for several API instances
//
// Cache failures are never fatal to a generation; callers treat errors as
// misses.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	TTLPlan     = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer builds cache keys.
type Keyer interface {
	// PlanKey returns the key for the plan of a request with the given
	// canonical hash.
	PlanKey(requestHash string) string
	// ArtifactKey returns the key for an artifact rendered from a plan.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the writer settings that change artifact bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	ColorMode string `json:"color_mode"`
	DPI       int    `json:"dpi"`
}

// DefaultKeyer produces keys of the form "plan:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlanKey implements Keyer.
func (DefaultKeyer) PlanKey(requestHash string) string {
	return hashKey("plan", requestHash)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}

// Package cache stores computed layouts and rendered artifacts.
//
// Layout is cheap but rendering through Graphviz is not, and the API serves
// the same scenario many times between edits. Entries are keyed by a content
// hash of the scenario, so an edited document never hits a stale entry and
// no explicit invalidation is needed.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry under a directory (CLI)
//   - [RedisCache]: shared cache for API deployments
//
// # Keys
//
// A [Keyer] builds keys from content hashes and options; [ScopedKeyer] adds a
// namespace prefix so several deployments can share one Redis.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key of the level assignment for a scenario hash.
	LayoutKey(scenarioHash string) string

	// ArtifactKey returns the key of a rendered artifact for a scenario hash.
	ArtifactKey(scenarioHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	NodeSpacing float64 `json:"node_spacing"`
	LevelHeight float64 `json:"level_height"`
	TopPadding  float64 `json:"top_padding"`
}

// keyVersion is bumped whenever layout or rendering output changes shape.
const keyVersion = 1

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(scenarioHash string) string {
	return hashKey("layout", keyVersion, scenarioHash)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(scenarioHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, keyVersion, scenarioHash, opts)
}

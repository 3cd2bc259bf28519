// Package cache stores rendered artifacts so repeated renders of an
// unchanged document do not hit the PlantUML server again.
//
// Four backends implement [Cache]:
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that deployments can namespace them
// (see [ScopedKeyer]).
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default expiry per entry type.
const (
	// TTLArtifact applies to images fetched from a PlantUML server. The
	// server output for a given source never changes, but servers get
	// upgraded.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLPreview applies to locally rendered constraint previews.
	TTLPreview = 24 * time.Hour

	// TTLHTTP applies to raw HTTP responses.
	TTLHTTP = time.Hour
)

// ArtifactKeyOpts are the render inputs besides the document that change
// the artifact bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Server string `json:"server"`
}

// PreviewKeyOpts are the inputs besides the document that change a
// constraint preview.
type PreviewKeyOpts struct {
	Format string  `json:"format"`
	MinGap float64 `json:"min_gap"`
}

// Keyer builds cache keys.
type Keyer interface {
	HTTPKey(namespace, key string) string
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
	PreviewKey(docHash string, opts PreviewKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

// ArtifactKey hashes the document hash together with opts.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// PreviewKey hashes the document hash together with opts.
func (DefaultKeyer) PreviewKey(docHash string, opts PreviewKeyOpts) string {
	return hashKey("preview", docHash, opts)
}

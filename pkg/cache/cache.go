// Package cache stores rendered artifacts between runs.
//
// # Overview
//
// Rendering a large lattice touches every output pixel, and encoding a PNG
// of it costs more than generating and clustering the lattice. The pipeline
// therefore caches encoded artifacts, keyed by a hash of the lattice text and
// every option that influences the bytes.
//
// Backends:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] turns inputs into keys. [DefaultKeyer] hashes the JSON encoding
// of its inputs with SHA-256; [ScopedKeyer] adds a prefix so one backend can
// serve several namespaces.
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(text), cache.ArtifactKeyOpts{Format: "png", LineLength: 10})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default time-to-live of a rendered artifact.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry. Get reports a miss as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey identifies one output format rendered from a lattice
	// whose text encoding hashes to latticeHash.
	ArtifactKey(latticeHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the rendering inputs that change artifact bytes.
type ArtifactKeyOpts struct {
	Format        string `json:"format"`
	Mode          string `json:"mode,omitempty"`
	ColorSeed     uint64 `json:"color_seed,omitempty"`
	LineLength    int    `json:"ll,omitempty"`
	LineWidth     int    `json:"lw,omitempty"`
	PointDiameter int    `json:"pd,omitempty"`
	Padding       int    `json:"pad,omitempty"`
	Scale         int    `json:"scale,omitempty"`
	Background    string `json:"bg,omitempty"`
	Passive       string `json:"passive,omitempty"`
	Histogram     bool   `json:"hist,omitempty"`
	Nodes         bool   `json:"nodes,omitempty"`
	Seed          uint64 `json:"seed,omitempty"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(latticeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", latticeHash, opts)
}

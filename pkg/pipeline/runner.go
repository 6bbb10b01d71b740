package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/percolator/pkg/cache"
	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/lattice"
	"github.com/matzehuels/percolator/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options; the
// lattices and indexes it returns belong to the caller.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached artifacts. Zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → cluster → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID[:8])

	// Stage 1: Generate
	genStart := time.Now()
	l, err := r.Generate(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Lattice = l
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Cells = l.Cells()
	result.Stats.Bonds = l.Bonds()
	if text, err := l.MarshalText(); err == nil {
		result.LatticeHash = cache.Hash(text)
	}

	logger.Info("generated lattice",
		"width", l.Width(),
		"height", l.Height(),
		"bonds", result.Stats.Bonds,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Cluster
	clusterStart := time.Now()
	ix := r.Cluster(ctx, l, opts)
	result.Index = ix
	result.Stats.ClusterTime = time.Since(clusterStart)
	result.Stats.Clusters = ix.Len()
	result.Stats.Leaks = ix.Leaks()

	logger.Info("computed clusters",
		"mode", opts.Mode,
		"clusters", ix.Len(),
		"leaks", result.Stats.Leaks,
		"duration", result.Stats.ClusterTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, ix, result.LatticeHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Generate draws the lattice described by opts, or parses opts.Text.
func (r *Runner) Generate(ctx context.Context, opts Options) (*lattice.Lattice, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Width, opts.Height, opts.Probability)
	start := time.Now()

	var l *lattice.Lattice
	var err error
	if opts.Text != "" {
		l, err = lattice.ParseString(opts.Text)
	} else {
		l, err = lattice.Generate(opts.Width, opts.Height, opts.Probability, lattice.NewRand(opts.Seed))
	}

	if err != nil {
		hooks.OnGenerateComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnGenerateComplete(ctx, l.Cells(), l.Bonds(), time.Since(start), nil)
	return l, nil
}

// Cluster computes the index for l in opts.Mode with colors drawn from
// opts.ColorSeed.
func (r *Runner) Cluster(ctx context.Context, l *lattice.Lattice, opts Options) *cluster.Index {
	opts.SetRenderDefaults()
	hooks := observability.Pipeline()
	hooks.OnClusterStart(ctx, opts.Mode, l.Cells())
	start := time.Now()

	colors := cluster.RandomColors(lattice.NewRand(opts.ColorSeed))
	var ix *cluster.Index
	if opts.Mode == ModeBoundary {
		ix = cluster.ComputeBoundary(l, colors)
	} else {
		ix = cluster.Compute(l, colors)
	}

	hooks.OnClusterComplete(ctx, opts.Mode, ix.Len(), ix.Leaks(), time.Since(start))
	return ix
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. latticeHash keys the cache; pass "" to bypass it.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *lattice.Lattice, ix *cluster.Index, latticeHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	cacheHooks := observability.Cache()

	// Try to get all formats from cache
	if latticeHash != "" && !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(latticeHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			if !hit {
				cacheHooks.OnCacheMiss(ctx, "artifact")
				break
			}
			cacheHooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(l, ix, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if latticeHash != "" {
		ttl := r.TTL
		if ttl <= 0 {
			ttl = cache.TTLArtifact
		}
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(latticeHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
				r.Logger.Warn("cache write failed", "format", format, "err", err)
				continue
			}
			cacheHooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

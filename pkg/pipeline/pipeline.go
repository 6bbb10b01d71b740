// Package pipeline runs the generate → cluster → render pipeline for percolator.
//
// The CLI and the HTTP server both drive lattices through this package so
// defaults, validation, caching and logging behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: draw a lattice from (width, height, probability, seed), or
//     parse one from its text encoding
//  2. Cluster: compute the full partition, or only the boundary clusters
//     when just the leak answer is needed
//  3. Render: produce artifacts (PNG, JSON, text, DOT, SVG)
//
// Only rendered artifacts are cached. Generation and clustering are cheap and
// deterministic, and their results are needed for statistics on every run.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Width:       40,
//	    Height:      30,
//	    Probability: 0.5,
//	    Formats:     []string{"png", "json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// [Sweep] estimates the leak probability over a range of bond probabilities.
package pipeline

import (
	"fmt"
	"image/color"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/percolator/pkg/cache"
	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/lattice"
	"github.com/matzehuels/percolator/pkg/render"
	"github.com/matzehuels/percolator/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default lattice width in cells.
	DefaultWidth = 30

	// DefaultHeight is the default lattice height in cells.
	DefaultHeight = 20

	// DefaultProbability is the bond probability used by the CLI and server
	// when none is given. Options itself treats 0 as a valid probability.
	DefaultProbability = 0.5

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = lattice.DefaultSeed

	// DefaultScale is the default PNG upscale factor.
	DefaultScale = 1
)

// Cluster modes.
const (
	ModeFull     = "full"
	ModeBoundary = "boundary"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatText = "txt"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJSON: true,
	FormatText: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidModes is the set of supported cluster modes.
var ValidModes = map[string]bool{
	ModeFull:     true,
	ModeBoundary: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Generate options. Text, when set, is parsed instead of generating and
	// the other generate options are ignored.
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	Probability float64 `json:"probability"`
	Seed        uint64  `json:"seed,omitempty"`
	Text        string  `json:"text,omitempty"`

	// Cluster options
	Mode      string `json:"mode,omitempty"`
	ColorSeed uint64 `json:"color_seed,omitempty"` // defaults to Seed

	// Render options
	Formats    []string        `json:"formats,omitempty"`
	Geometry   render.Geometry `json:"geometry,omitzero"`
	Scale      int             `json:"scale,omitempty"`
	Background string          `json:"background,omitempty"` // hex color
	Passive    string          `json:"passive,omitempty"`    // hex color
	Histogram  bool            `json:"histogram,omitempty"`
	Nodes      bool            `json:"nodes,omitempty"`
	Refresh    bool            `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and server responses.
	RunID string

	// Lattice is the generated or parsed lattice.
	Lattice *lattice.Lattice

	// LatticeHash is the content hash of the lattice text encoding.
	LatticeHash string

	// Index is the cluster index computed in the requested mode.
	Index *cluster.Index

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cells        int
	Bonds        int
	Clusters     int
	Leaks        bool
	GenerateTime time.Duration
	ClusterTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, json, txt, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a cluster mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid mode: %q (must be one of: full, boundary)", mode)
	}
	return nil
}

// ParseColor parses a "#rrggbb" hex color.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks lattice parameters and applies defaults.
func (o *Options) ValidateForGenerate() error {
	if o.Text == "" {
		if o.Width == 0 {
			o.Width = DefaultWidth
		}
		if o.Height == 0 {
			o.Height = DefaultHeight
		}
		if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
			return err
		}
		if err := errors.ValidateProbability(o.Probability); err != nil {
			return err
		}
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for clustering and rendering.
func (o *Options) SetRenderDefaults() {
	if o.Mode == "" {
		o.Mode = ModeFull
	}
	if o.ColorSeed == 0 {
		o.ColorSeed = o.Seed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Geometry == (render.Geometry{}) {
		o.Geometry = render.DefaultGeometry
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Background == "" {
		o.Background = sink.Hex(render.DefaultBackground)
	}
	if o.Passive == "" {
		o.Passive = sink.Hex(render.DefaultPassive)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for clustering and rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Geometry.Validate(); err != nil {
		return err
	}
	if o.Scale < 1 || o.Scale > sink.MaxScale {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be in [1, %d], got %d", sink.MaxScale, o.Scale)
	}
	if _, err := ParseColor(o.Background); err != nil {
		return err
	}
	if _, err := ParseColor(o.Passive); err != nil {
		return err
	}
	return nil
}

// NeedsRaster reports whether any requested format needs the pixel renderer.
func (o *Options) NeedsRaster() bool {
	return slices.Contains(o.Formats, FormatPNG)
}

// colors returns the parsed background and passive colors. Call after
// ValidateForRender.
func (o *Options) colors() (bg, passive color.RGBA) {
	bg, _ = ParseColor(o.Background)
	passive, _ = ParseColor(o.Passive)
	return bg, passive
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		Mode:      o.Mode,
		ColorSeed: o.ColorSeed,
	}
	switch format {
	case FormatPNG:
		k.LineLength = o.Geometry.LineLength
		k.LineWidth = o.Geometry.LineWidth
		k.PointDiameter = o.Geometry.PointDiameter
		k.Padding = o.Geometry.Padding
		k.Scale = o.Scale
		k.Background = o.Background
		k.Passive = o.Passive
	case FormatJSON:
		k.Histogram = o.Histogram
		k.Nodes = o.Nodes
		if o.Text == "" {
			k.Seed = o.Seed
		}
	case FormatText:
		k.Mode, k.ColorSeed = "", 0
	}
	return k
}

func (o *Options) String() string {
	if o.Text != "" {
		return fmt.Sprintf("text(%d bytes) mode=%s", len(o.Text), o.Mode)
	}
	return fmt.Sprintf("%dx%d p=%g seed=%d mode=%s", o.Width, o.Height, o.Probability, o.Seed, o.Mode)
}

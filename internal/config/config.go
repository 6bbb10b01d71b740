// Package config loads percolator settings from a TOML or YAML file.
//
// Every field is optional. Missing values keep the defaults from [Default],
// and command-line flags override whatever the file sets.
//
//	[lattice]
//	width = 60
//	height = 40
//	probability = 0.5
//
//	[geometry]
//	line_length = 12
//	point_diameter = 5
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/percolator/pkg/cache"
	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/pipeline"
	"github.com/matzehuels/percolator/pkg/render"
	"github.com/matzehuels/percolator/pkg/render/sink"
)

// DefaultAddr is the listen address of the HTTP server.
const DefaultAddr = ":8080"

// Config is the file-level configuration.
type Config struct {
	Lattice  Lattice         `toml:"lattice" yaml:"lattice"`
	Geometry render.Geometry `toml:"geometry" yaml:"geometry"`
	Colors   Colors          `toml:"colors" yaml:"colors"`
	Cache    Cache           `toml:"cache" yaml:"cache"`
	Server   Server          `toml:"server" yaml:"server"`
}

// Lattice holds the generation defaults.
type Lattice struct {
	Width       int     `toml:"width" yaml:"width"`
	Height      int     `toml:"height" yaml:"height"`
	Probability float64 `toml:"probability" yaml:"probability"`
	Seed        uint64  `toml:"seed" yaml:"seed"`
}

// Colors holds "#rrggbb" render colors.
type Colors struct {
	Background string `toml:"background" yaml:"background"`
	Passive    string `toml:"passive" yaml:"passive"`
}

// Cache selects the artifact cache backend. RedisURL takes precedence over
// Dir; an empty Dir means the XDG cache directory.
type Cache struct {
	Dir      string        `toml:"dir" yaml:"dir"`
	RedisURL string        `toml:"redis_url" yaml:"redis_url"`
	TTL      time.Duration `toml:"ttl" yaml:"ttl"`
	Disabled bool          `toml:"disabled" yaml:"disabled"`
}

// Server configures the serve command.
type Server struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Lattice: Lattice{
			Width:       pipeline.DefaultWidth,
			Height:      pipeline.DefaultHeight,
			Probability: pipeline.DefaultProbability,
			Seed:        pipeline.DefaultSeed,
		},
		Geometry: render.DefaultGeometry,
		Colors: Colors{
			Background: sink.Hex(render.DefaultBackground),
			Passive:    sink.Hex(render.DefaultPassive),
		},
		Cache:  Cache{TTL: cache.TTLArtifact},
		Server: Server{Addr: DefaultAddr},
	}
}

// Load reads path on top of [Default]. The format is chosen by extension:
// .toml, or .yaml and .yml. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", keys[0].String(), path)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return cfg, errors.New(errors.ErrCodeInvalidConfig,
			"unsupported config format %q (must be .toml, .yaml or .yml)", ext)
	}

	return cfg, cfg.Validate()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Lattice.Width, c.Lattice.Height); err != nil {
		return err
	}
	if err := errors.ValidateProbability(c.Lattice.Probability); err != nil {
		return err
	}
	if err := c.Geometry.Validate(); err != nil {
		return err
	}
	if _, err := pipeline.ParseColor(c.Colors.Background); err != nil {
		return err
	}
	if _, err := pipeline.ParseColor(c.Colors.Passive); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server address must not be empty")
	}
	return nil
}

// Options returns pipeline options seeded with the configured defaults.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		Width:       c.Lattice.Width,
		Height:      c.Lattice.Height,
		Probability: c.Lattice.Probability,
		Seed:        c.Lattice.Seed,
		Geometry:    c.Geometry,
		Background:  c.Colors.Background,
		Passive:     c.Colors.Passive,
	}
}

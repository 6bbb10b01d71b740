package pipeline

import (
	"fmt"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/lattice"
	"github.com/matzehuels/percolator/pkg/render"
	"github.com/matzehuels/percolator/pkg/render/nodelink"
	"github.com/matzehuels/percolator/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
// opts must have passed ValidateForRender.
func Render(l *lattice.Lattice, ix *cluster.Index, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPNG:
			data, err = renderPNG(l, ix, opts)
		case FormatJSON:
			data, err = sink.RenderJSON(l, ix, jsonOptions(opts)...)
		case FormatText:
			data, err = l.MarshalText()
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot, err = nodelink.ToDOT(l, ix, nodelink.Options{})
				if err != nil {
					break
				}
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(dot)
			}
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderBuffer rasterizes l with the geometry and colors in opts.
func RenderBuffer(l *lattice.Lattice, ix *cluster.Index, opts Options) (*render.Buffer, error) {
	eng, err := render.NewEngine(opts.Geometry)
	if err != nil {
		return nil, err
	}
	bg, passive := opts.colors()
	return eng.Render(l, ix, render.NewPalette(ix, bg, passive))
}

func renderPNG(l *lattice.Lattice, ix *cluster.Index, opts Options) ([]byte, error) {
	buf, err := RenderBuffer(l, ix, opts)
	if err != nil {
		return nil, err
	}
	bg, _ := opts.colors()
	return sink.RenderPNG(buf,
		sink.WithPadding(opts.Geometry.Padding, bg),
		sink.WithScale(opts.Scale),
	)
}

func jsonOptions(opts Options) []sink.JSONOption {
	var jsonOpts []sink.JSONOption
	if opts.Histogram {
		jsonOpts = append(jsonOpts, sink.WithHistogram())
	}
	if opts.Nodes {
		jsonOpts = append(jsonOpts, sink.WithNodes())
	}
	if opts.Text == "" {
		jsonOpts = append(jsonOpts, sink.WithSeed(opts.Seed))
	}
	return jsonOpts
}

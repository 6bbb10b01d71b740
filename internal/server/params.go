package server

import (
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/pipeline"
	"github.com/matzehuels/percolator/pkg/render"
)

// query reads typed query parameters and keeps the first parse error.
type query struct {
	values url.Values
	err    error
}

func (q *query) fail(name, raw string, err error) {
	if q.err == nil {
		q.err = errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s=%q", name, raw)
	}
}

func (q *query) int(name string, dst *int) {
	raw := q.values.Get(name)
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(name, raw, err)
		return
	}
	*dst = v
}

func (q *query) uint64(name string, dst *uint64) {
	raw := q.values.Get(name)
	if raw == "" {
		return
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		q.fail(name, raw, err)
		return
	}
	*dst = v
}

func (q *query) float(name string, dst *float64) {
	raw := q.values.Get(name)
	if raw == "" {
		return
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.fail(name, raw, err)
		return
	}
	*dst = v
}

func (q *query) bool(name string, dst *bool) {
	raw := q.values.Get(name)
	if raw == "" {
		return
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(name, raw, err)
		return
	}
	*dst = v
}

func (q *query) string(name string, dst *string) {
	if raw := q.values.Get(name); raw != "" {
		*dst = raw
	}
}

// options builds pipeline options from the server defaults and the request.
//
// Query parameters: width, height, p, seed, mode, color_seed, ll (line
// length), lw (line width), pd (point diameter), pad, scale, bg, passive,
// histogram, nodes, refresh. A POST body replaces generation with the
// lattice text it holds.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = nil
	opts.Logger = nil
	if opts.Geometry == (render.Geometry{}) {
		opts.Geometry = render.DefaultGeometry
	}

	q := &query{values: r.URL.Query()}
	q.int("width", &opts.Width)
	q.int("height", &opts.Height)
	q.float("p", &opts.Probability)
	q.uint64("seed", &opts.Seed)
	q.string("mode", &opts.Mode)
	q.uint64("color_seed", &opts.ColorSeed)
	q.int("ll", &opts.Geometry.LineLength)
	q.int("lw", &opts.Geometry.LineWidth)
	q.int("pd", &opts.Geometry.PointDiameter)
	q.int("pad", &opts.Geometry.Padding)
	q.int("scale", &opts.Scale)
	q.string("bg", &opts.Background)
	q.string("passive", &opts.Passive)
	q.bool("histogram", &opts.Histogram)
	q.bool("nodes", &opts.Nodes)
	q.bool("refresh", &opts.Refresh)
	if q.err != nil {
		return opts, q.err
	}

	if r.Method == http.MethodPost {
		body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
		}
		if len(body) == 0 {
			return opts, errors.New(errors.ErrCodeInvalidText, "request body is empty")
		}
		opts.Text = string(body)
	}
	return opts, nil
}

func (s *Server) sweepOptions(r *http.Request) (pipeline.SweepOptions, error) {
	opts := pipeline.SweepOptions{
		Width:  s.defaults.Width,
		Height: s.defaults.Height,
		Seed:   s.defaults.Seed,
	}
	q := &query{values: r.URL.Query()}
	q.int("width", &opts.Width)
	q.int("height", &opts.Height)
	q.float("from", &opts.From)
	q.float("to", &opts.To)
	q.int("steps", &opts.Steps)
	q.int("trials", &opts.Trials)
	q.uint64("seed", &opts.Seed)
	if q.err != nil {
		return opts, q.err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	work := 1
	for _, n := range []int{opts.Width, opts.Height, opts.Steps, opts.Trials} {
		if work > maxSweepCells/n {
			return opts, errors.New(errors.ErrCodeInvalidInput,
				"sweep too large: %dx%d lattice, %d steps, %d trials (max %d cell-trials)",
				opts.Width, opts.Height, opts.Steps, opts.Trials, maxSweepCells)
		}
		work *= n
	}
	return opts, nil
}

package pipeline

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/lattice"
)

// Sweep defaults and limits.
const (
	DefaultSweepSteps  = 11
	DefaultSweepTrials = 20
	MaxSweepSteps      = 1000
	MaxSweepTrials     = 100_000
)

// SweepOptions configures [Sweep].
type SweepOptions struct {
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Steps  int     `json:"steps,omitempty"`  // probability points, From and To included
	Trials int     `json:"trials,omitempty"` // lattices per point
	Seed   uint64  `json:"seed,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SweepPoint is the leak count at one probability.
type SweepPoint struct {
	Probability float64 `json:"probability"`
	Trials      int     `json:"trials"`
	Leaks       int     `json:"leaks"`
}

// Fraction returns the observed leak probability.
func (p SweepPoint) Fraction() float64 {
	if p.Trials == 0 {
		return 0
	}
	return float64(p.Leaks) / float64(p.Trials)
}

// ValidateAndSetDefaults checks the sweep range and applies defaults.
// From = To = 0 means the full range [0, 1].
func (o *SweepOptions) ValidateAndSetDefaults() error {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.From == 0 && o.To == 0 {
		o.To = 1
	}
	if o.Steps == 0 {
		o.Steps = DefaultSweepSteps
	}
	if o.Trials == 0 {
		o.Trials = DefaultSweepTrials
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if err := errors.ValidateProbability(o.From); err != nil {
		return err
	}
	if err := errors.ValidateProbability(o.To); err != nil {
		return err
	}
	if o.From > o.To {
		return errors.New(errors.ErrCodeInvalidConfig, "sweep range is empty: from %g > to %g", o.From, o.To)
	}
	if o.Steps < 1 || o.Trials < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "steps and trials must be positive, got %d and %d", o.Steps, o.Trials)
	}
	if o.Steps > MaxSweepSteps || o.Trials > MaxSweepTrials {
		return errors.New(errors.ErrCodeInvalidConfig,
			"steps and trials must be at most %d and %d, got %d and %d", MaxSweepSteps, MaxSweepTrials, o.Steps, o.Trials)
	}
	return nil
}

// probability returns the i-th of Steps evenly spaced probabilities.
func (o *SweepOptions) probability(i int) float64 {
	if o.Steps == 1 {
		return o.From
	}
	if i == o.Steps-1 {
		return o.To
	}
	return o.From + (o.To-o.From)*float64(i)/float64(o.Steps-1)
}

// Sweep estimates the leak probability at evenly spaced bond probabilities.
//
// One lattice is reused: each point sets its probability and every further
// trial regenerates it, all from a single random source seeded with
// opts.Seed, so a sweep is reproducible. Leaks are decided with the
// boundary-seeded traversal. progress, if non-nil, is called after each
// point. ctx is checked between trials.
func Sweep(ctx context.Context, opts SweepOptions, progress func(done, total int)) ([]SweepPoint, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	l, err := lattice.Generate(opts.Width, opts.Height, opts.From, lattice.NewRand(opts.Seed))
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, 0, opts.Steps)
	for i := range opts.Steps {
		pt := SweepPoint{Probability: opts.probability(i), Trials: opts.Trials}
		if err := l.SetProbability(pt.Probability); err != nil {
			return nil, err
		}
		for trial := range opts.Trials {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if trial > 0 {
				l.Regenerate()
			}
			if cluster.Leaks(l) {
				pt.Leaks++
			}
		}
		opts.Logger.Debug("sweep point", "p", pt.Probability, "leaks", pt.Leaks, "trials", pt.Trials)
		points = append(points, pt)
		if progress != nil {
			progress(i+1, opts.Steps)
		}
	}
	return points, nil
}

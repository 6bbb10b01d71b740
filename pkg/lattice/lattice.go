package lattice

import (
	"math/rand/v2"

	"github.com/matzehuels/percolator/pkg/errors"
)

// DefaultSeed seeds the random source when neither [WithRand] nor [WithSeed]
// is supplied.
const DefaultSeed = uint64(42)

// NewRand returns the PCG source used throughout percolator for a given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Lattice is a W×H grid of cells with randomly present right and down bonds.
//
// The zero value is not usable; create lattices with [Generate], [New],
// [FromLinks] or [Parse]. A Lattice is not safe for concurrent mutation.
type Lattice struct {
	width, height int
	prob          float64
	right         []bool // horizontal links, index y*width+x
	down          []bool // vertical links, index y*width+x
	rng           *rand.Rand
}

// Option configures [New].
type Option func(*Lattice)

// WithRand sets the random source used for this and every later regeneration.
func WithRand(rng *rand.Rand) Option {
	return func(l *Lattice) { l.rng = rng }
}

// WithSeed is shorthand for WithRand(NewRand(seed)).
func WithSeed(seed uint64) Option {
	return func(l *Lattice) { l.rng = NewRand(seed) }
}

// Generate draws a fresh width×height lattice with bond probability prob.
// The result depends only on the arguments and the state of rng, which the
// lattice keeps for later regenerations.
func Generate(width, height int, prob float64, rng *rand.Rand) (*Lattice, error) {
	if rng == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "random source must not be nil")
	}
	l := &Lattice{rng: rng}
	if err := l.reset(width, height, prob); err != nil {
		return nil, err
	}
	return l, nil
}

// New is like [Generate] but takes the random source as an option.
func New(width, height int, prob float64, opts ...Option) (*Lattice, error) {
	l := &Lattice{}
	for _, opt := range opts {
		opt(l)
	}
	if l.rng == nil {
		l.rng = NewRand(DefaultSeed)
	}
	if err := l.reset(width, height, prob); err != nil {
		return nil, err
	}
	return l, nil
}

// FromLinks builds a lattice from explicit link planes, both indexed
// y*width+x. Links crossing the right or bottom boundary are dropped. The
// slices are copied. The probability is set to the observed bond fraction.
func FromLinks(width, height int, right, down []bool) (*Lattice, error) {
	if err := errors.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	n := width * height
	if len(right) != n || len(down) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"link planes must have %d entries, got %d and %d", n, len(right), len(down))
	}
	l := &Lattice{
		width:  width,
		height: height,
		right:  make([]bool, n),
		down:   make([]bool, n),
		rng:    NewRand(DefaultSeed),
	}
	for y := range height {
		for x := range width {
			i := y*width + x
			l.right[i] = right[i] && x < width-1
			l.down[i] = down[i] && y < height-1
		}
	}
	l.prob = l.observedProbability()
	return l, nil
}

// reset validates the parameters and redraws every bond.
func (l *Lattice) reset(width, height int, prob float64) error {
	if err := errors.ValidateDimensions(width, height); err != nil {
		return err
	}
	if err := errors.ValidateProbability(prob); err != nil {
		return err
	}
	l.width, l.height, l.prob = width, height, prob
	l.flood()
	return nil
}

// flood draws every horizontal slot row-major, then every vertical slot.
// Boundary slots consume no draws.
func (l *Lattice) flood() {
	n := l.width * l.height
	l.right = make([]bool, n)
	l.down = make([]bool, n)
	for y := range l.height {
		for x := range l.width - 1 {
			l.right[y*l.width+x] = l.rng.Float64() < l.prob
		}
	}
	for y := range l.height - 1 {
		for x := range l.width {
			l.down[y*l.width+x] = l.rng.Float64() < l.prob
		}
	}
}

// Regenerate redraws every bond with the current size and probability.
func (l *Lattice) Regenerate() {
	l.flood()
}

// Resize changes the dimensions and redraws every bond at the current
// probability. Prior bonds are never preserved. To change one axis only,
// pass the current value for the other.
func (l *Lattice) Resize(width, height int) error {
	return l.reset(width, height, l.prob)
}

// SetProbability changes the bond probability and redraws every bond.
func (l *Lattice) SetProbability(p float64) error {
	return l.reset(l.width, l.height, p)
}

// Width returns the number of columns.
func (l *Lattice) Width() int { return l.width }

// Height returns the number of rows.
func (l *Lattice) Height() int { return l.height }

// Probability returns the bond probability the lattice was drawn with.
func (l *Lattice) Probability() float64 { return l.prob }

// Cells returns width×height.
func (l *Lattice) Cells() int { return l.width * l.height }

// InBounds reports whether (x, y) is a cell of the lattice.
func (l *Lattice) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.width && y < l.height
}

// Right reports whether the bond from (x, y) to (x+1, y) is present.
// Out-of-range coordinates report false.
func (l *Lattice) Right(x, y int) bool {
	if !l.InBounds(x, y) {
		return false
	}
	return l.right[y*l.width+x]
}

// Down reports whether the bond from (x, y) to (x, y+1) is present.
// Out-of-range coordinates report false.
func (l *Lattice) Down(x, y int) bool {
	if !l.InBounds(x, y) {
		return false
	}
	return l.down[y*l.width+x]
}

// Bonds returns the number of present bonds.
func (l *Lattice) Bonds() int {
	n := 0
	for i := range l.right {
		if l.right[i] {
			n++
		}
		if l.down[i] {
			n++
		}
	}
	return n
}

// Slots returns the number of potential bonds: W(H−1) + H(W−1).
func (l *Lattice) Slots() int {
	return l.width*(l.height-1) + l.height*(l.width-1)
}

func (l *Lattice) observedProbability() float64 {
	if s := l.Slots(); s > 0 {
		return float64(l.Bonds()) / float64(s)
	}
	return 0
}

// Equal reports whether two lattices have the same size and bonds.
// Probability and random state are not compared.
func (l *Lattice) Equal(o *Lattice) bool {
	if l.width != o.width || l.height != o.height {
		return false
	}
	for i := range l.right {
		if l.right[i] != o.right[i] || l.down[i] != o.down[i] {
			return false
		}
	}
	return true
}

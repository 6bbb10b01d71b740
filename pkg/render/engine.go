package render

import (
	"math"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/lattice"
)

// MaxPixels bounds the area of a render buffer and of an encoded image.
const MaxPixels = 1 << 25

// Engine draws lattices with a fixed, validated [Geometry].
// An Engine holds no per-render state and is safe for concurrent use.
type Engine struct {
	geom     Geometry
	lt       int
	coverage [][]float64
}

// NewEngine validates geom and precomputes the marker coverage.
func NewEngine(geom Geometry) (*Engine, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	lt, _ := geom.insets()
	return &Engine{geom: geom, lt: lt, coverage: CircleCoverage(geom.PointDiameter)}, nil
}

// Geometry returns the engine's geometry.
func (e *Engine) Geometry() Geometry { return e.geom }

// Size returns the buffer dimensions for l, excluding padding.
func (e *Engine) Size(l *lattice.Lattice) (w, h int) {
	inset := e.geom.Inset()
	return (l.Width()-1)*e.geom.LineLength + inset, (l.Height()-1)*e.geom.LineLength + inset
}

// CheckSize reports an INVALID_CONFIG error when the buffer for l would
// exceed [MaxPixels].
func (e *Engine) CheckSize(l *lattice.Lattice) error {
	ll := e.geom.LineLength
	if l.Width()-1 > MaxPixels/ll || l.Height()-1 > MaxPixels/ll {
		return e.tooLarge(l)
	}
	w, h := e.Size(l)
	if !FitsPixels(w, h) {
		return e.tooLarge(l)
	}
	return nil
}

func (e *Engine) tooLarge(l *lattice.Lattice) error {
	return errors.New(errors.ErrCodeInvalidConfig,
		"a %dx%d lattice at line length %d exceeds %d pixels", l.Width(), l.Height(), e.geom.LineLength, MaxPixels)
}

// FitsPixels reports whether a w by h image stays within [MaxPixels].
func FitsPixels(w, h int) bool {
	if w < 0 || h < 0 {
		return false
	}
	return w == 0 || h <= MaxPixels/w
}

// Render draws l colored by ix. The index must have been computed from a
// lattice of the same size; a boundary-seeded index is fine and leaves
// unreached cells in the passive color.
func (e *Engine) Render(l *lattice.Lattice, ix *cluster.Index, pal Palette) (*Buffer, error) {
	if ix == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cluster index must not be nil")
	}
	if ix.Width() != l.Width() || ix.Height() != l.Height() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"cluster index is %dx%d but lattice is %dx%d", ix.Width(), ix.Height(), l.Width(), l.Height())
	}

	if err := e.CheckSize(l); err != nil {
		return nil, err
	}
	w, h := e.Size(l)
	buf := newBuffer(w, h, pal.Background)
	e.drawMarkers(buf, l, ix, pal)
	e.drawHorizontal(buf, l, ix, pal)
	e.drawVertical(buf, l, ix, pal)
	return buf, nil
}

func (e *Engine) drawMarkers(buf *Buffer, l *lattice.Lattice, ix *cluster.Index, pal Palette) {
	d := e.geom.PointDiameter
	if d == 0 {
		return
	}
	off := e.lt - d/2
	for y := range l.Height() {
		for x := range l.Width() {
			c := pal.Color(ix.At(x, y))
			x0, y0 := x*e.geom.LineLength+off, y*e.geom.LineLength+off
			for dy, row := range e.coverage {
				for dx, cov := range row {
					buf.blend(x0+dx, y0+dy, c, cov)
				}
			}
		}
	}
}

// drawHorizontal paints the bar of each right bond from the tile center of
// (x, y) to the tile center of (x+1, y).
func (e *Engine) drawHorizontal(buf *Buffer, l *lattice.Lattice, ix *cluster.Index, pal Palette) {
	lw, ll := e.geom.LineWidth, e.geom.LineLength
	if lw == 0 {
		return
	}
	for y := range l.Height() {
		y0 := y*ll + e.lt - lw/2
		for x := range l.Width() {
			if !l.Right(x, y) {
				continue
			}
			x0 := x*ll + e.lt
			buf.fillRect(x0, y0, x0+ll, y0+lw, pal.Color(ix.At(x, y)))
		}
	}
}

func (e *Engine) drawVertical(buf *Buffer, l *lattice.Lattice, ix *cluster.Index, pal Palette) {
	lw, ll := e.geom.LineWidth, e.geom.LineLength
	if lw == 0 {
		return
	}
	for y := range l.Height() {
		y0 := y*ll + e.lt
		for x := range l.Width() {
			if !l.Down(x, y) {
				continue
			}
			x0 := x*ll + e.lt - lw/2
			buf.fillRect(x0, y0, x0+lw, y0+ll, pal.Color(ix.At(x, y)))
		}
	}
}

// Center returns the output pixel at the tile center of cell (x, y),
// including padding.
func (e *Engine) Center(x, y int) (px, py int) {
	off := e.geom.Padding + e.lt
	return off + x*e.geom.LineLength, off + y*e.geom.LineLength
}

// CellAt returns the cell whose tile center is nearest to output pixel
// (px, py). Each axis is clamped to the lattice, so pixels in the padding or
// beyond the image map to the closest edge cell. CellAt inverts [Engine.Center].
func (e *Engine) CellAt(px, py int, l *lattice.Lattice) (x, y int) {
	off := float64(e.geom.Padding + e.lt)
	ll := float64(e.geom.LineLength)
	x = int(math.Round((float64(px) - off) / ll))
	y = int(math.Round((float64(py) - off) / ll))
	return clamp(x, l.Width()-1), clamp(y, l.Height()-1)
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}

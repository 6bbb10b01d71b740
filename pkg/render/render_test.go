package render

import (
	"image/color"
	"testing"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/lattice"
)

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	grey = DefaultPassive
)

func mustEngine(t *testing.T, g Geometry) *Engine {
	t.Helper()
	e, err := NewEngine(g)
	if err != nil {
		t.Fatalf("NewEngine(%+v): %v", g, err)
	}
	return e
}

func mustParse(t *testing.T, text string) *lattice.Lattice {
	t.Helper()
	l, err := lattice.ParseString(text)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", text, err)
	}
	return l
}

func TestCircleCoverage(t *testing.T) {
	if got := CircleCoverage(0); len(got) != 0 {
		t.Errorf("CircleCoverage(0) = %v, want empty", got)
	}
	if got := CircleCoverage(-3); len(got) != 0 {
		t.Errorf("CircleCoverage(-3) = %v, want empty", got)
	}
	if got := CircleCoverage(1); len(got) != 1 || len(got[0]) != 1 || got[0][0] != 1 {
		t.Errorf("CircleCoverage(1) = %v, want [[1]]", got)
	}
	got := CircleCoverage(2)
	if len(got) != 2 {
		t.Fatalf("CircleCoverage(2) has %d rows, want 2", len(got))
	}
	for y, row := range got {
		for x, v := range row {
			if v != 1 {
				t.Errorf("CircleCoverage(2)[%d][%d] = %v, want 1", y, x, v)
			}
		}
	}
}

func TestCircleCoverageShape(t *testing.T) {
	for d := 3; d <= 12; d++ {
		cov := CircleCoverage(d)
		if len(cov) != d {
			t.Fatalf("d=%d: %d rows", d, len(cov))
		}
		mid := cov[d/2][d/2]
		for _, corner := range []float64{cov[0][0], cov[0][d-1], cov[d-1][0], cov[d-1][d-1]} {
			if mid <= corner {
				t.Errorf("d=%d: center %v not greater than corner %v", d, mid, corner)
			}
		}
		for y := range d {
			for x := range d {
				v := cov[y][x]
				if v < 0 || v > 1 {
					t.Errorf("d=%d: coverage[%d][%d] = %v out of [0,1]", d, y, x, v)
				}
				if v != cov[x][y] {
					t.Errorf("d=%d: coverage not symmetric at (%d,%d)", d, x, y)
				}
			}
		}
	}
}

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		name string
		geom Geometry
		ok   bool
	}{
		{"default", DefaultGeometry, true},
		{"inset equals length", Geometry{LineLength: 4, LineWidth: 4, PointDiameter: 2}, true},
		{"inset exceeds length", Geometry{LineLength: 4, LineWidth: 1, PointDiameter: 5}, false},
		{"zero length", Geometry{LineLength: 0}, false},
		{"negative width", Geometry{LineLength: 5, LineWidth: -1}, false},
		{"negative padding", Geometry{LineLength: 5, Padding: -1}, false},
		{"all zero widths", Geometry{LineLength: 1}, true},
		{"longest line", Geometry{LineLength: MaxLineLength, LineWidth: 1}, true},
		{"line too long", Geometry{LineLength: 1 << 40, LineWidth: 1, PointDiameter: 1}, false},
		{"padding too wide", Geometry{LineLength: 5, Padding: MaxPadding + 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.geom)
			if tt.ok && err != nil {
				t.Errorf("NewEngine() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("NewEngine() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestSize(t *testing.T) {
	e := mustEngine(t, Geometry{LineLength: 10, LineWidth: 3, PointDiameter: 5, Padding: 7})
	l, _ := lattice.New(4, 3, 0.5)
	w, h := e.Size(l)
	if w != 35 || h != 25 {
		t.Errorf("Size() = %dx%d, want 35x25", w, h)
	}
}

func TestRenderBackgroundOnly(t *testing.T) {
	e := mustEngine(t, Geometry{LineLength: 6})
	l, _ := lattice.New(5, 4, 1, lattice.WithSeed(3))
	ix := cluster.Compute(l, cluster.FixedColor(red))
	bg := color.RGBA{R: 10, G: 20, B: 30, A: 0xff}
	buf, err := e.Render(l, ix, NewPalette(ix, bg, grey))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Width != 24 || buf.Height != 18 {
		t.Fatalf("buffer is %dx%d, want 24x18", buf.Width, buf.Height)
	}
	for y := range buf.Height {
		for x := range buf.Width {
			if got := buf.At(x, y); got != bg {
				t.Fatalf("At(%d,%d) = %v, want background %v", x, y, got, bg)
			}
		}
	}
}

func TestRenderTwoCells(t *testing.T) {
	// L=5, lw=1, d=1: inset 1, lt 0. Buffer 6x1.
	e := mustEngine(t, Geometry{LineLength: 5, LineWidth: 1, PointDiameter: 1})
	l := mustParse(t, "10")
	ix := cluster.Compute(l, cluster.FixedColor(red))
	buf, err := e.Render(l, ix, NewPalette(ix, DefaultBackground, grey))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Width != 6 || buf.Height != 1 {
		t.Fatalf("buffer is %dx%d, want 6x1", buf.Width, buf.Height)
	}
	for x := range 6 {
		if got := buf.At(x, 0); got != red {
			t.Errorf("At(%d,0) = %v, want %v", x, got, red)
		}
	}

	open := mustParse(t, "00")
	ix = cluster.Compute(open, cluster.FixedColor(red))
	buf, _ = e.Render(open, ix, NewPalette(ix, DefaultBackground, grey))
	for x := range 6 {
		want := DefaultBackground
		if x == 0 || x == 5 {
			want = red
		}
		if got := buf.At(x, 0); got != want {
			t.Errorf("no bond: At(%d,0) = %v, want %v", x, got, want)
		}
	}
}

func TestRenderPassiveColor(t *testing.T) {
	// Middle cell of 3x1 is unreachable from the boundary.
	e := mustEngine(t, Geometry{LineLength: 4, PointDiameter: 2})
	l := mustParse(t, "000")
	ix := cluster.ComputeBoundary(l, cluster.FixedColor(red))
	buf, err := e.Render(l, ix, NewPalette(ix, DefaultBackground, grey))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := buf.At(4, 0); got != grey {
		t.Errorf("unassigned marker = %v, want passive %v", got, grey)
	}
	if got := buf.At(0, 0); got != red {
		t.Errorf("boundary marker = %v, want %v", got, red)
	}
}

func TestRenderVerticalBar(t *testing.T) {
	e := mustEngine(t, Geometry{LineLength: 6, LineWidth: 2, PointDiameter: 2})
	l := mustParse(t, "2\n0")
	ix := cluster.Compute(l, cluster.FixedColor(red))
	pal := NewPalette(ix, DefaultBackground, grey)
	buf, _ := e.Render(l, ix, pal)
	// lt = 1, bar x from 0 to 2, y from 1 to 7.
	for y := 1; y < 7; y++ {
		for x := range 2 {
			if got := buf.At(x, y); got != red {
				t.Errorf("At(%d,%d) = %v, want %v", x, y, got, red)
			}
		}
	}
}

func TestRenderBlendRounds(t *testing.T) {
	if got := mix(0, 255, 0.5); got != 128 {
		t.Errorf("mix(0,255,0.5) = %d, want 128", got)
	}
	if got := mix(100, 200, 0.25); got != 125 {
		t.Errorf("mix(100,200,0.25) = %d, want 125", got)
	}
}

func TestRenderAntialiasedMarker(t *testing.T) {
	black := color.RGBA{A: 0xff}
	cov := CircleCoverage(5)

	// d=5 fills the whole 5x5 tile, so the marker starts at (0,0).
	e := mustEngine(t, Geometry{LineLength: 5, PointDiameter: 5})
	l := mustParse(t, "0")
	ix := cluster.Compute(l, cluster.FixedColor(red))
	buf, err := e.Render(l, ix, NewPalette(ix, black, grey))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := color.RGBA{R: mix(0, 0xff, cov[0][0]), A: 0xff}
	if got := buf.At(0, 0); got != want {
		t.Errorf("At(0,0) = %v, want %v", got, want)
	}
	if want.R == 0 || want.R == 0xff {
		t.Errorf("corner coverage %v is not partial", cov[0][0])
	}
	if got := buf.At(2, 2); got != red {
		t.Errorf("At(2,2) = %v, want %v", got, red)
	}

	// A 3 pixel bar covers rows 1-3 from x=2 to x=7 and overwrites the
	// marker's partial edge at (4,1).
	if c := cov[1][4]; c <= 0 || c >= 1 {
		t.Fatalf("coverage at (4,1) = %v, want partial", c)
	}
	e = mustEngine(t, Geometry{LineLength: 5, LineWidth: 3, PointDiameter: 5})
	l = mustParse(t, "10")
	ix = cluster.Compute(l, cluster.FixedColor(red))
	buf, err = e.Render(l, ix, NewPalette(ix, black, grey))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, p := range [][2]int{{4, 1}, {5, 1}, {4, 3}} {
		if got := buf.At(p[0], p[1]); got != red {
			t.Errorf("At(%d,%d) = %v, want %v", p[0], p[1], got, red)
		}
	}
	if got := buf.At(0, 0); got != want {
		t.Errorf("At(0,0) outside bar = %v, want %v", got, want)
	}
}

func TestRenderTooLarge(t *testing.T) {
	e := mustEngine(t, Geometry{LineLength: MaxLineLength, LineWidth: 1, PointDiameter: 1})
	l, _ := lattice.New(100, 100, 0.5)
	if err := e.CheckSize(l); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("CheckSize() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
	ix := cluster.Compute(l, nil)
	if _, err := e.Render(l, ix, NewPalette(ix, DefaultBackground, grey)); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Render() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}

	small, _ := lattice.New(3, 3, 0.5)
	if err := e.CheckSize(small); err != nil {
		t.Errorf("CheckSize(3x3) error = %v", err)
	}
}

func TestFitsPixels(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{0, 0, true},
		{1, MaxPixels, true},
		{2, MaxPixels/2 + 1, false},
		{1 << 40, 1 << 40, false},
		{-1, 5, false},
	}
	for _, tt := range tests {
		if got := FitsPixels(tt.w, tt.h); got != tt.want {
			t.Errorf("FitsPixels(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderIndexMismatch(t *testing.T) {
	e := mustEngine(t, DefaultGeometry)
	a, _ := lattice.New(3, 3, 0.5)
	b, _ := lattice.New(4, 3, 0.5)
	ix := cluster.Compute(b, nil)
	if _, err := e.Render(a, ix, NewPalette(ix, DefaultBackground, grey)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Render() error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, err := e.Render(a, nil, Palette{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Render(nil index) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestCellAtInvertsCenter(t *testing.T) {
	geoms := []Geometry{
		DefaultGeometry,
		{LineLength: 7, LineWidth: 3, PointDiameter: 5, Padding: 0},
		{LineLength: 1},
		{LineLength: 9, LineWidth: 4, PointDiameter: 2, Padding: 3},
	}
	l, _ := lattice.New(6, 4, 0.5)
	for _, g := range geoms {
		e := mustEngine(t, g)
		for y := range l.Height() {
			for x := range l.Width() {
				px, py := e.Center(x, y)
				if gx, gy := e.CellAt(px, py, l); gx != x || gy != y {
					t.Errorf("%+v: CellAt(Center(%d,%d)) = (%d,%d)", g, x, y, gx, gy)
				}
			}
		}
	}
}

func TestCellAtClamps(t *testing.T) {
	e := mustEngine(t, DefaultGeometry)
	l, _ := lattice.New(5, 3, 0.5)
	tests := []struct {
		px, py int
		x, y   int
	}{
		{-100, -100, 0, 0},
		{10000, 10000, 4, 2},
		{0, 10000, 0, 2},
	}
	for _, tt := range tests {
		if x, y := e.CellAt(tt.px, tt.py, l); x != tt.x || y != tt.y {
			t.Errorf("CellAt(%d,%d) = (%d,%d), want (%d,%d)", tt.px, tt.py, x, y, tt.x, tt.y)
		}
	}
}

func TestPaletteColor(t *testing.T) {
	l := mustParse(t, "00")
	ix := cluster.Compute(l, cluster.FixedColor(red))
	p := NewPalette(ix, DefaultBackground, grey)
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
	if got := p.Color(0, true); got != red {
		t.Errorf("Color(0,true) = %v, want %v", got, red)
	}
	if got := p.Color(0, false); got != grey {
		t.Errorf("Color(0,false) = %v, want passive", got)
	}
	if got := p.Color(9, true); got != grey {
		t.Errorf("Color(9,true) = %v, want passive", got)
	}
}

func TestBufferImage(t *testing.T) {
	b := newBuffer(2, 1, color.RGBA{R: 1, G: 2, B: 3, A: 0xff})
	img := b.Image()
	if got := img.RGBAAt(1, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 0xff}) {
		t.Errorf("RGBAAt(1,0) = %v", got)
	}
	if got := b.At(5, 5); got != (color.RGBA{}) {
		t.Errorf("At out of range = %v, want zero", got)
	}
}

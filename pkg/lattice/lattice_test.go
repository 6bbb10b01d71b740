package lattice

import (
	"strings"
	"testing"

	"github.com/matzehuels/percolator/pkg/errors"
)

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(30, 20, 0.5, NewRand(7))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(30, 20, 0.5, NewRand(7))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !a.Equal(b) {
		t.Error("same seed should produce identical lattices")
	}

	c, _ := Generate(30, 20, 0.5, NewRand(8))
	if a.Equal(c) {
		t.Error("different seeds should produce different lattices")
	}
}

func TestGenerateNilRand(t *testing.T) {
	_, err := Generate(3, 3, 0.5, nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Generate(nil rng) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestBoundaryBondsAbsent(t *testing.T) {
	l, err := New(12, 9, 1, WithSeed(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for y := range l.Height() {
		if l.Right(l.Width()-1, y) {
			t.Errorf("Right(%d, %d) = true on right boundary", l.Width()-1, y)
		}
	}
	for x := range l.Width() {
		if l.Down(x, l.Height()-1) {
			t.Errorf("Down(%d, %d) = true on bottom boundary", x, l.Height()-1)
		}
	}
	if got, want := l.Bonds(), l.Slots(); got != want {
		t.Errorf("Bonds() = %d, want %d at p=1", got, want)
	}
}

func TestExtremeProbabilities(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		want func(l *Lattice) int
	}{
		{"p=0 has no bonds", 0, func(*Lattice) int { return 0 }},
		{"p=1 fills every slot", 1, func(l *Lattice) int { return l.Slots() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(5, 5, tt.p)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got, want := l.Bonds(), tt.want(l); got != want {
				t.Errorf("Bonds() = %d, want %d", got, want)
			}
		})
	}
}

func TestBondFractionNearProbability(t *testing.T) {
	l, err := New(200, 200, 0.3, WithSeed(11))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	frac := float64(l.Bonds()) / float64(l.Slots())
	if frac < 0.28 || frac > 0.32 {
		t.Errorf("bond fraction = %.4f, want about 0.3", frac)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		p      float64
	}{
		{"zero width", 0, 4, 0.5},
		{"zero height", 4, 0, 0.5},
		{"negative probability", 4, 4, -0.1},
		{"probability above one", 4, 4, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.width, tt.height, tt.p)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("New(%d, %d, %v) error = %v, want %s", tt.width, tt.height, tt.p, err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestResizeRegenerates(t *testing.T) {
	l, _ := New(10, 10, 0.5, WithSeed(1))
	before := l.String()

	if err := l.Resize(10, 10); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if l.String() == before {
		t.Error("Resize to the same size should still redraw the bonds")
	}

	if err := l.Resize(4, 7); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if l.Width() != 4 || l.Height() != 7 {
		t.Errorf("size = %dx%d, want 4x7", l.Width(), l.Height())
	}
	if l.Probability() != 0.5 {
		t.Errorf("Probability() = %v, want 0.5", l.Probability())
	}
	if got := len(strings.Split(l.String(), "\n")); got != 7 {
		t.Errorf("text rows = %d, want 7", got)
	}
}

func TestResizeRejectsZero(t *testing.T) {
	l, _ := New(3, 3, 0.5)
	before := l.String()
	if err := l.Resize(0, 3); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Resize(0, 3) error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
	if l.Width() != 3 || l.String() != before {
		t.Error("failed Resize should leave the lattice untouched")
	}
}

func TestSetProbability(t *testing.T) {
	l, _ := New(6, 6, 0)
	if err := l.SetProbability(1); err != nil {
		t.Fatalf("SetProbability: %v", err)
	}
	if l.Bonds() != l.Slots() {
		t.Errorf("Bonds() = %d after SetProbability(1), want %d", l.Bonds(), l.Slots())
	}
	if err := l.SetProbability(2); err == nil {
		t.Error("SetProbability(2) should fail")
	}
	if l.Probability() != 1 {
		t.Errorf("Probability() = %v after failed update, want 1", l.Probability())
	}
}

func TestRegenerateKeepsParameters(t *testing.T) {
	l, _ := New(8, 5, 0.6, WithSeed(5))
	before := l.String()
	l.Regenerate()
	if l.Width() != 8 || l.Height() != 5 || l.Probability() != 0.6 {
		t.Error("Regenerate should not change parameters")
	}
	if l.String() == before {
		t.Error("Regenerate should draw a new configuration")
	}
}

func TestFromLinks(t *testing.T) {
	right := []bool{true, true, false, true}
	down := []bool{true, false, true, true}
	l, err := FromLinks(2, 2, right, down)
	if err != nil {
		t.Fatalf("FromLinks: %v", err)
	}
	if !l.Right(0, 0) || l.Right(1, 0) || !l.Down(0, 0) {
		t.Error("interior links not preserved or boundary links not dropped")
	}
	if l.Down(0, 1) || l.Down(1, 1) || l.Right(1, 1) {
		t.Error("boundary links should be dropped")
	}
	if l.Bonds() != 2 {
		t.Errorf("Bonds() = %d, want 2", l.Bonds())
	}
	if l.Probability() != 0.5 {
		t.Errorf("Probability() = %v, want observed fraction 0.5", l.Probability())
	}

	if _, err := FromLinks(2, 2, right[:3], down); err == nil {
		t.Error("FromLinks with short plane should fail")
	}
}

func TestOutOfRangeAccessors(t *testing.T) {
	l, _ := New(3, 3, 1)
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if l.Right(c[0], c[1]) || l.Down(c[0], c[1]) {
			t.Errorf("accessors at %v should report false", c)
		}
	}
}

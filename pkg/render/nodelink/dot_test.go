package nodelink

import (
	"image/color"
	"strings"
	"testing"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/lattice"
)

func TestToDOT(t *testing.T) {
	l, err := lattice.ParseString("12\n00")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	ix := cluster.Compute(l, cluster.FixedColor(color.RGBA{R: 0xff, A: 0xff}))

	dot, err := ToDOT(l, ix, Options{Labels: true})
	if err != nil {
		t.Fatalf("ToDOT() error: %v", err)
	}

	for _, want := range []string{
		"graph G {",
		`c0_0 [pos="0,0!"`,
		`c1_1 [pos="0.5,-0.5!"`,
		`c0_0 -- c1_0 [color="#ff0000"];`,
		`c1_0 -- c1_1 [color="#ff0000"];`,
		`label="0"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, " -- "); got != 2 {
		t.Errorf("edge count = %d, want 2", got)
	}
}

func TestToDOTPassive(t *testing.T) {
	l, _ := lattice.ParseString("000")
	ix := cluster.ComputeBoundary(l, cluster.FixedColor(color.RGBA{B: 0xff, A: 0xff}))
	dot, err := ToDOT(l, ix, Options{})
	if err != nil {
		t.Fatalf("ToDOT() error: %v", err)
	}
	if !strings.Contains(dot, `c1_0 [pos="0.5,0!", fillcolor="#808080"`) {
		t.Errorf("unassigned cell not grey:\n%s", dot)
	}
}

func TestToDOTTooLarge(t *testing.T) {
	l, _ := lattice.New(60, 50, 0.5)
	ix := cluster.ComputeBoundary(l, nil)
	if _, err := ToDOT(l, ix, Options{}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToDOT() error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.50 200.00" width="100" height="200"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}

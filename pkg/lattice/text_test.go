package lattice

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/percolator/pkg/errors"
)

func TestMarshalText(t *testing.T) {
	// 3x2: (0,0) right+down, (1,0) down, (0,1) right.
	right := []bool{true, false, false, true, false, false}
	down := []bool{true, true, false, false, false, false}
	l, err := FromLinks(3, 2, right, down)
	if err != nil {
		t.Fatalf("FromLinks: %v", err)
	}
	if got, want := l.String(), "320\n100"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 4, 5} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			l, err := New(17, 9, 0.5, WithSeed(seed))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			text, _ := l.MarshalText()
			got, err := Parse(strings.NewReader(string(text)))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !got.Equal(l) {
				t.Errorf("Parse(MarshalText()) differs from source:\n%s\nvs\n%s", got, l)
			}
		})
	}
}

func TestParseForcesBoundary(t *testing.T) {
	l, err := ParseString("33\n33\n")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got, want := l.String(), "32\n10"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseSingleColumn(t *testing.T) {
	l, err := ParseString("2\n2\n0")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if l.Width() != 1 || l.Height() != 3 {
		t.Errorf("size = %dx%d, want 1x3", l.Width(), l.Height())
	}
	if !l.Down(0, 0) || !l.Down(0, 1) {
		t.Error("vertical bonds not parsed")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"only newline", "\n"},
		{"ragged rows", "012\n01"},
		{"empty middle row", "01\n\n01"},
		{"invalid digit", "014\n000"},
		{"letter", "0a\n00"},
		{"trailing blank lines", "01\n00\n\n"},
		{"carriage return", "01\r\n00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := ParseString(tt.text)
			if err == nil {
				t.Fatalf("ParseString(%q) = %v, want error", tt.text, l)
			}
			if !errors.Is(err, errors.ErrCodeInvalidText) {
				t.Errorf("ParseString(%q) code = %v, want %s", tt.text, errors.GetCode(err), errors.ErrCodeInvalidText)
			}
			if l != nil {
				t.Error("no partial lattice should be returned")
			}
		})
	}
}

func TestGlyphs(t *testing.T) {
	l, _ := ParseString("30\n10")
	want := "▛▀▘ \n▀▀▘ \n"
	if got := l.Glyphs(); got != want {
		t.Errorf("Glyphs() = %q, want %q", got, want)
	}
}

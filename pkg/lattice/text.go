package lattice

import (
	"bytes"
	"io"
	"strings"

	"github.com/matzehuels/percolator/pkg/errors"
)

// glyphs renders each cell code as two terminal columns.
var glyphs = [4]string{"▘ ", "▀▀", "▌ ", "▛▀"}

// code returns right + 2*down for a cell.
func (l *Lattice) code(x, y int) byte {
	var c byte
	if l.Right(x, y) {
		c |= 1
	}
	if l.Down(x, y) {
		c |= 2
	}
	return c
}

// MarshalText encodes the lattice as rows of digits 0–3 joined by newlines.
func (l *Lattice) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(l.Cells() + l.height)
	for y := range l.height {
		if y > 0 {
			buf.WriteByte('\n')
		}
		for x := range l.width {
			buf.WriteByte('0' + l.code(x, y))
		}
	}
	return buf.Bytes(), nil
}

// String returns the text encoding.
func (l *Lattice) String() string {
	b, _ := l.MarshalText()
	return string(b)
}

// Glyph returns the two-column block drawing of cell (x, y).
func (l *Lattice) Glyph(x, y int) string {
	return glyphs[l.code(x, y)]
}

// Glyphs draws the lattice with block characters for terminal display.
// Each cell is a dot, extended rightward and downward where bonds exist.
func (l *Lattice) Glyphs() string {
	var sb strings.Builder
	for y := range l.height {
		for x := range l.width {
			sb.WriteString(l.Glyph(x, y))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Parse reads the text encoding produced by [Lattice.MarshalText].
// A single trailing newline is accepted. Empty input, rows of differing
// length, and symbols other than 0–3 are rejected; nothing is returned on
// error. Boundary-crossing bonds named by the input are dropped.
func Parse(r io.Reader) (*Lattice, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidText, err, "read lattice text")
	}
	return ParseString(string(data))
}

// ParseString is [Parse] for an in-memory string.
func ParseString(text string) (*Lattice, error) {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, errors.New(errors.ErrCodeInvalidText, "lattice text is empty")
	}
	rows := strings.Split(text, "\n")
	width, height := len(rows[0]), len(rows)
	if width == 0 {
		return nil, errors.New(errors.ErrCodeInvalidText, "row 0 is empty")
	}
	if err := errors.ValidateDimensions(width, height); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidText, err, "lattice text size")
	}

	right := make([]bool, width*height)
	down := make([]bool, width*height)
	for y, row := range rows {
		if len(row) != width {
			return nil, errors.New(errors.ErrCodeInvalidText,
				"row %d has %d cells, want %d", y, len(row), width)
		}
		for x := range len(row) {
			c := row[x]
			if c < '0' || c > '3' {
				return nil, errors.New(errors.ErrCodeInvalidText,
					"invalid symbol %q at row %d, column %d", c, y, x)
			}
			v := c - '0'
			right[y*width+x] = v&1 != 0
			down[y*width+x] = v&2 != 0
		}
	}
	return FromLinks(width, height, right, down)
}

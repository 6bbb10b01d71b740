package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/lattice"
	"github.com/matzehuels/percolator/pkg/render/sink"
)

var stylePassive = lipgloss.NewStyle().Foreground(colorDim)

// colorGlyphs draws l with block characters, each cell in its cluster's
// color. Cells the index did not reach are dim.
func colorGlyphs(l *lattice.Lattice, ix *cluster.Index) string {
	styles := make([]lipgloss.Style, ix.Len())
	for i := range styles {
		c := ix.Cluster(cluster.ID(i)).Color()
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(sink.Hex(c)))
	}

	var b strings.Builder
	for y := range l.Height() {
		for x := range l.Width() {
			style := stylePassive
			if id, ok := ix.At(x, y); ok {
				style = styles[id]
			}
			b.WriteString(style.Render(l.Glyph(x, y)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput creates path for writing, or returns stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

package render

import (
	"image/color"

	"github.com/matzehuels/percolator/pkg/cluster"
)

var (
	// DefaultBackground is the canvas color.
	DefaultBackground = color.RGBA{A: 0xff}
	// DefaultPassive colors cells that belong to no discovered cluster.
	DefaultPassive = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// Palette maps cluster IDs to colors. It is a snapshot of the index it was
// built from.
type Palette struct {
	Background color.RGBA
	Passive    color.RGBA
	colors     []color.RGBA
}

// NewPalette copies each cluster's display color from ix.
func NewPalette(ix *cluster.Index, background, passive color.RGBA) Palette {
	p := Palette{Background: background, Passive: passive}
	if ix == nil {
		return p
	}
	p.colors = make([]color.RGBA, ix.Len())
	for i := range p.colors {
		p.colors[i] = ix.Cluster(cluster.ID(i)).Color()
	}
	return p
}

// Color returns the color for a cell label as returned by [cluster.Index.At].
// Unassigned cells and unknown IDs get the passive color.
func (p Palette) Color(id cluster.ID, ok bool) color.RGBA {
	if !ok || int(id) >= len(p.colors) {
		return p.Passive
	}
	return p.colors[id]
}

// Len returns the number of cluster colors in the palette.
func (p Palette) Len() int { return len(p.colors) }

package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/lattice"
	"github.com/matzehuels/percolator/pkg/render/sink"
)

// MaxCells bounds the lattices [ToDOT] accepts. Graphviz layout time grows
// quickly with node count and the diagram stops being readable long before.
const MaxCells = 2500

// Options configures node-link diagram rendering.
type Options struct {
	// Spacing is the distance between neighbouring cells in inches.
	// Zero means 0.5.
	Spacing float64

	// Labels prints each cell's cluster ID inside its node.
	Labels bool
}

// ToDOT converts a clustered lattice to Graphviz DOT source. Every cell is
// a node pinned at its grid position and every present bond is an edge.
// Nodes and edges take their cluster's color; cells the index never reached
// are drawn grey. The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(l *lattice.Lattice, ix *cluster.Index, opts Options) (string, error) {
	if l.Cells() > MaxCells {
		return "", errors.New(errors.ErrCodeUnsupported,
			"node-link diagrams support at most %d cells, lattice has %d", MaxCells, l.Cells())
	}
	if ix.Width() != l.Width() || ix.Height() != l.Height() {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"cluster index is %dx%d but lattice is %dx%d", ix.Width(), ix.Height(), l.Width(), l.Height())
	}
	spacing := opts.Spacing
	if spacing <= 0 {
		spacing = 0.5
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.25, fontsize=8, label=\"\"];\n")
	buf.WriteString("  edge [penwidth=3];\n")
	buf.WriteString("\n")

	for y := range l.Height() {
		for x := range l.Width() {
			fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(x, y), fmtAttrs(ix, x, y, spacing, opts.Labels))
		}
	}

	buf.WriteString("\n")
	for y := range l.Height() {
		for x := range l.Width() {
			col := fillColor(ix, x, y)
			if l.Right(x, y) {
				fmt.Fprintf(&buf, "  %s -- %s [color=%q];\n", nodeID(x, y), nodeID(x+1, y), col)
			}
			if l.Down(x, y) {
				fmt.Fprintf(&buf, "  %s -- %s [color=%q];\n", nodeID(x, y), nodeID(x, y+1), col)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func nodeID(x, y int) string {
	return fmt.Sprintf("c%d_%d", x, y)
}

func fillColor(ix *cluster.Index, x, y int) string {
	if c := ix.ClusterAt(x, y); c != nil {
		return sink.Hex(c.Color())
	}
	return "#808080"
}

func fmtAttrs(ix *cluster.Index, x, y int, spacing float64, labels bool) string {
	attrs := fmt.Sprintf("pos=\"%g,%g!\", fillcolor=%q, color=%q",
		float64(x)*spacing, float64(-y)*spacing, fillColor(ix, x, y), fillColor(ix, x, y))
	if labels {
		if id, ok := ix.At(x, y); ok {
			attrs += fmt.Sprintf(", label=\"%d\"", id)
		}
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz. The neato engine is
// used so pinned positions are honoured.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

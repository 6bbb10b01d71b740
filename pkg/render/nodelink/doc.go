// Package nodelink renders a clustered lattice as a node-link diagram.
//
// # Overview
//
// Where [render] rasterizes a lattice at fixed pixel geometry, this package
// emits a Graphviz graph: one node per cell and one edge per present bond,
// colored by cluster. It is meant for small lattices, for debugging and for
// vector output.
//
// # Usage
//
//	dot, err := nodelink.ToDOT(l, ix, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # DOT Format
//
// The [ToDOT] function produces an undirected graph with every node pinned
// at "x,-y!" so Graphviz keeps the grid shape. The DOT source can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools (use neato -n)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
//
// [render]: github.com/matzehuels/percolator/pkg/render
package nodelink

// Package sink encodes rendered lattices into output formats.
//
// # Overview
//
// A "sink" turns the in-memory results of [render] and [cluster] into bytes:
//
//   - PNG: the rendered [render.Buffer], optionally padded and upscaled
//   - JSON: lattice summary and per-cluster statistics
//
// # PNG Output
//
// [RenderPNG] encodes a buffer. The render buffer itself has no border; use
// [WithPadding] with the same value as [render.Geometry.Padding] so pixel
// coordinates in the file agree with [render.Engine.CellAt]:
//
//	png, err := sink.RenderPNG(buf,
//	    sink.WithPadding(geom.Padding, render.DefaultBackground),
//	    sink.WithScale(2),
//	)
//
// [WithScale] enlarges by an integer factor with nearest-neighbour sampling,
// which keeps bond bars sharp. Coordinates in a scaled image must be divided
// by the factor before calling CellAt.
//
// # JSON Output
//
// [RenderJSON] exports the lattice dimensions, leak flag and every discovered
// cluster. For a boundary-seeded index only the boundary clusters are listed
// and "complete" is false.
//
//	data, err := sink.RenderJSON(l, ix, sink.WithHistogram())
//
// [render]: github.com/matzehuels/percolator/pkg/render
// [cluster]: github.com/matzehuels/percolator/pkg/cluster
package sink

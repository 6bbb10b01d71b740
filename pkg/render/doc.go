// Package render rasterizes a clustered lattice into an RGB pixel buffer.
//
// # Overview
//
// Each cell occupies a square tile of side [Geometry.LineLength]. The cell is
// drawn as an anti-aliased disk of diameter [Geometry.PointDiameter], and every
// present bond as a bar of thickness [Geometry.LineWidth] joining two tile
// centers. Markers and bars take the color of their cluster, or the palette's
// passive color when the cell was never assigned (a boundary-seeded index).
//
//	eng, err := render.NewEngine(render.Geometry{LineLength: 10, LineWidth: 2, PointDiameter: 4})
//	ix := cluster.Compute(l, cluster.RandomColors(rng))
//	buf, err := eng.Render(l, ix, render.NewPalette(ix, render.DefaultBackground, render.DefaultPassive))
//	img := buf.Image()
//
// # Geometry
//
// The inset is max(LineWidth, PointDiameter). It is split unevenly:
// the left/top half is inset/2 rounded down, and the odd pixel goes to the
// right/bottom. Every drawing operation uses the same split so markers and
// bars line up at tile boundaries for both parities. A buffer is
// (W−1)·LineLength + inset pixels wide and likewise tall. An inset larger than
// LineLength would make neighbouring tiles overlap and is rejected by
// [NewEngine].
//
// # Compositing
//
// Layers are drawn in a fixed order: markers, horizontal bars, vertical bars.
// Each pixel is blended per channel as dst·(1−c) + color·c, where c is the
// layer's coverage at that pixel, and rounded to the nearest integer. Bars
// have full coverage; marker coverage comes from [CircleCoverage].
//
// # Coordinates
//
// [Engine.Center] maps a cell to the pixel at its tile center and
// [Engine.CellAt] maps any pixel back to the nearest cell, clamping outside
// points. Both include [Geometry.Padding], which is not part of the buffer but
// is added by the PNG sink in [sink].
//
// [sink]: github.com/matzehuels/percolator/pkg/render/sink
package render

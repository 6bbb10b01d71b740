// Package pkg provides the core libraries for Percolator bond percolation.
//
// # Overview
//
// Percolator draws random bond lattices, labels their connected clusters,
// decides whether a cluster spans from the left edge to the right edge, and
// renders the result. The pkg directory is organized into three areas:
//
//  1. [lattice] and [cluster] - Domain logic (bonds, text encoding, clusters)
//  2. [render] - Rasterization and output sinks (PNG, JSON, DOT, SVG)
//  3. [pipeline] - Orchestration (generate → cluster → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	width, height, p, seed  or  lattice text
//	         ↓
//	    [lattice] package (generate or parse)
//	         ↓
//	    [cluster] package (full or boundary-seeded traversal)
//	         ↓
//	    [render] package (pixel buffer, palette)
//	         ↓
//	    PNG/JSON/TXT/DOT/SVG output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/percolator/pkg/cluster"
//	    "github.com/matzehuels/percolator/pkg/lattice"
//	    "github.com/matzehuels/percolator/pkg/render"
//	    "github.com/matzehuels/percolator/pkg/render/sink"
//	)
//
//	// 1. Generate a lattice
//	l, _ := lattice.New(80, 60, 0.5, lattice.WithSeed(7))
//
//	// 2. Label clusters
//	ix := cluster.Compute(l, cluster.RandomColors(lattice.NewRand(7)))
//	fmt.Println("leaks:", ix.Leaks())
//
//	// 3. Draw
//	eng, _ := render.NewEngine(render.DefaultGeometry)
//	buf, _ := eng.Render(l, ix, render.NewPalette(ix, render.DefaultBackground, render.DefaultPassive))
//
//	// 4. Encode
//	png, _ := sink.RenderPNG(buf, sink.WithPadding(10, render.DefaultBackground))
//
// # Main Packages
//
// [lattice] - Bond lattice with right and down links per cell. Generation is
// deterministic for a seed; the text encoding stores right + 2·down per cell.
//
// [cluster] - Cluster index. [cluster.Compute] partitions every cell;
// [cluster.ComputeBoundary] only traverses from the left and right columns,
// which is enough to answer the leak question.
//
// [render] - Anti-aliased raster engine. Subpackages:
//
//   - [render/sink]: PNG and JSON encoders
//   - [render/nodelink]: Graphviz DOT and SVG for small lattices
//
// [pipeline] - Options, validation, the caching [pipeline.Runner] and
// probability sweeps. Used by both the CLI and the HTTP server.
//
// [cache] - Artifact cache with file, Redis and null backends.
//
// [observability] - Hook interfaces for metrics. The server installs
// Prometheus implementations; the default hooks do nothing.
//
// [errors] - Coded errors and input validation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/cluster/...     # Specific package
//
// [lattice]: https://pkg.go.dev/github.com/matzehuels/percolator/pkg/lattice
// [cluster]: https://pkg.go.dev/github.com/matzehuels/percolator/pkg/cluster
// [render]: https://pkg.go.dev/github.com/matzehuels/percolator/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/percolator/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/percolator/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/percolator/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/percolator/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/percolator/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/percolator/pkg/errors
package pkg

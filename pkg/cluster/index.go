package cluster

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/lattice"
)

// unassigned marks a cell that no traversal has reached.
const unassigned int32 = -1

// Index maps every cell of a lattice to its cluster.
//
// Cells are labelled with small integer IDs stored in a dense grid; a
// separate table maps ID to [Cluster]. An Index built by [ComputeBoundary]
// is incomplete: see [Index.Complete].
type Index struct {
	width, height int
	labels        []int32
	clusters      []*Cluster
	complete      bool
}

// Compute partitions the whole lattice. Cells are used as traversal seeds in
// row-major order; each unvisited seed yields one new cluster. colors may be
// nil, in which case clusters carry the zero color.
func Compute(l *lattice.Lattice, colors ColorSource) *Index {
	ix := newIndex(l)
	for y := range l.Height() {
		for x := range l.Width() {
			ix.visit(l, x, y, colors)
		}
	}
	ix.complete = true
	return ix
}

// ComputeBoundary traverses only from column 0 and then from column W−1.
// The result answers [Index.Leaks] but is not a complete partition.
func ComputeBoundary(l *lattice.Lattice, colors ColorSource) *Index {
	ix := newIndex(l)
	for _, x := range []int{0, l.Width() - 1} {
		for y := range l.Height() {
			ix.visit(l, x, y, colors)
		}
	}
	ix.complete = ix.assigned() == len(ix.labels)
	return ix
}

// Leaks reports whether some path of present bonds joins the left and right
// columns of l. It runs the boundary-seeded traversal only.
func Leaks(l *lattice.Lattice) bool {
	return ComputeBoundary(l, nil).Leaks()
}

func newIndex(l *lattice.Lattice) *Index {
	labels := make([]int32, l.Cells())
	for i := range labels {
		labels[i] = unassigned
	}
	return &Index{width: l.Width(), height: l.Height(), labels: labels}
}

// visit collects the component containing (x, y) unless it is already known.
func (ix *Index) visit(l *lattice.Lattice, x, y int, colors ColorSource) {
	if ix.labels[y*ix.width+x] != unassigned {
		return
	}
	id := ID(len(ix.clusters))
	nodes := ix.traverse(l, Point{x, y}, int32(id))
	var c color.RGBA
	if colors != nil {
		c = colors.Next()
	}
	ix.clusters = append(ix.clusters, newCluster(id, nodes, ix.width, c))
}

// traverse runs an iterative DFS from start, labelling every reached cell
// with label as it is pushed so no cell enters the stack twice.
func (ix *Index) traverse(l *lattice.Lattice, start Point, label int32) []Point {
	w := ix.width
	ix.labels[start.Y*w+start.X] = label
	stack := []Point{start}
	var nodes []Point

	push := func(x, y int) {
		if i := y*w + x; ix.labels[i] == unassigned {
			ix.labels[i] = label
			stack = append(stack, Point{x, y})
		}
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes = append(nodes, p)

		// A cell's left and upper neighbours are reached through the
		// neighbour's own right and down bonds.
		if l.Right(p.X-1, p.Y) {
			push(p.X-1, p.Y)
		}
		if l.Down(p.X, p.Y) {
			push(p.X, p.Y+1)
		}
		if l.Down(p.X, p.Y-1) {
			push(p.X, p.Y-1)
		}
		if l.Right(p.X, p.Y) {
			push(p.X+1, p.Y)
		}
	}
	return nodes
}

func (ix *Index) assigned() int {
	n := 0
	for _, c := range ix.clusters {
		n += c.Area()
	}
	return n
}

// Width returns the width of the indexed lattice.
func (ix *Index) Width() int { return ix.width }

// Height returns the height of the indexed lattice.
func (ix *Index) Height() int { return ix.height }

// Complete reports whether every cell is assigned. Always true for [Compute];
// true for [ComputeBoundary] only when the boundary clusters happen to cover
// the lattice.
func (ix *Index) Complete() bool { return ix.complete }

// At returns the cluster ID of cell (x, y). ok is false when the cell is
// unassigned or out of range.
func (ix *Index) At(x, y int) (id ID, ok bool) {
	if x < 0 || y < 0 || x >= ix.width || y >= ix.height {
		return 0, false
	}
	label := ix.labels[y*ix.width+x]
	if label == unassigned {
		return 0, false
	}
	return ID(label), true
}

// ClusterAt returns the cluster containing (x, y), or nil if the cell is
// unassigned or out of range.
func (ix *Index) ClusterAt(x, y int) *Cluster {
	id, ok := ix.At(x, y)
	if !ok {
		return nil
	}
	return ix.clusters[id]
}

// Len returns the number of discovered clusters.
func (ix *Index) Len() int { return len(ix.clusters) }

// Cluster returns the cluster with the given ID, or nil if no such cluster
// was discovered.
func (ix *Index) Cluster(id ID) *Cluster {
	if int(id) >= len(ix.clusters) {
		return nil
	}
	return ix.clusters[id]
}

// Clusters returns every cluster ordered by ID. It fails with
// INCOMPLETE_PARTITION for a boundary-seeded index that did not reach every
// cell, since such a list would silently omit interior clusters.
func (ix *Index) Clusters() ([]*Cluster, error) {
	if !ix.complete {
		return nil, errors.New(errors.ErrCodeIncompletePartition,
			"boundary-seeded index covers %d of %d cells", ix.assigned(), len(ix.labels))
	}
	return slices.Clone(ix.clusters), nil
}

// Leaks reports whether some discovered cluster touches both the left and the
// right column. For a one-column lattice every cell touches both.
func (ix *Index) Leaks() bool {
	return slices.ContainsFunc(ix.clusters, (*Cluster).Spans)
}

// Largest returns the cluster with the greatest area, lowest ID on ties.
// It returns nil for an index with no clusters.
func (ix *Index) Largest() *Cluster {
	if len(ix.clusters) == 0 {
		return nil
	}
	return slices.MaxFunc(ix.clusters, func(a, b *Cluster) int {
		if c := cmp.Compare(a.Area(), b.Area()); c != 0 {
			return c
		}
		return cmp.Compare(b.id, a.id)
	})
}

// SizeCount is one bucket of a cluster size histogram.
type SizeCount struct {
	Size  int `json:"size"`
	Count int `json:"count"`
}

// SizeHistogram counts clusters per area, sorted by ascending size.
// Like [Index.Clusters], it requires a complete index.
func (ix *Index) SizeHistogram() ([]SizeCount, error) {
	clusters, err := ix.Clusters()
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int)
	for _, c := range clusters {
		counts[c.Area()]++
	}
	hist := make([]SizeCount, 0, len(counts))
	for size, n := range counts {
		hist = append(hist, SizeCount{Size: size, Count: n})
	}
	slices.SortFunc(hist, func(a, b SizeCount) int { return cmp.Compare(a.Size, b.Size) })
	return hist, nil
}

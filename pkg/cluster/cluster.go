package cluster

import (
	"image/color"
	"math"
	"slices"
)

// ID identifies a cluster within one [Index]. IDs are dense, start at 0, and
// follow discovery order, which carries no meaning beyond reproducibility.
type ID uint32

// Point is a cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cluster is one connected component with its derived statistics.
// All values are computed once when the cluster is created and never change.
type Cluster struct {
	id     ID
	nodes  []Point
	center [2]float64
	radius float64
	color  color.RGBA

	touchesLeft, touchesRight bool
}

// newCluster derives statistics from a finished node list. nodes is never
// empty: every traversal starts from, and includes, its seed cell.
func newCluster(id ID, nodes []Point, width int, c color.RGBA) *Cluster {
	cl := &Cluster{id: id, nodes: nodes, color: c}
	var sx, sy float64
	for _, p := range nodes {
		sx += float64(p.X)
		sy += float64(p.Y)
		if p.X == 0 {
			cl.touchesLeft = true
		}
		if p.X == width-1 {
			cl.touchesRight = true
		}
	}
	n := float64(len(nodes))
	cl.center = [2]float64{sx / n, sy / n}
	cl.radius = math.Sqrt(n / math.Pi)
	return cl
}

// ID returns the cluster's identifier.
func (c *Cluster) ID() ID { return c.id }

// Area returns the number of cells in the cluster.
func (c *Cluster) Area() int { return len(c.nodes) }

// Nodes returns a copy of the cluster's cells in traversal order.
func (c *Cluster) Nodes() []Point { return slices.Clone(c.nodes) }

// Contains reports whether p is a cell of the cluster.
func (c *Cluster) Contains(p Point) bool { return slices.Contains(c.nodes, p) }

// CenterOfMass returns the mean x and y of the cluster's cells.
func (c *Cluster) CenterOfMass() (x, y float64) { return c.center[0], c.center[1] }

// Radius returns sqrt(area/π), the radius of a disk with the cluster's area.
// It is a display size, not a bounding radius.
func (c *Cluster) Radius() float64 { return c.radius }

// Color returns the display color assigned when the cluster was created.
func (c *Cluster) Color() color.RGBA { return c.color }

// Spans reports whether the cluster touches both the left and right columns.
func (c *Cluster) Spans() bool { return c.touchesLeft && c.touchesRight }

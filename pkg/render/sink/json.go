package sink

import (
	"encoding/json"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/lattice"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	histogram bool
	nodes     bool
	seed      *uint64
}

// WithHistogram includes the cluster size histogram. It is ignored for an
// incomplete index.
func WithHistogram() JSONOption { return func(r *jsonRenderer) { r.histogram = true } }

// WithNodes lists every cell of every cluster. Output grows with W×H.
func WithNodes() JSONOption { return func(r *jsonRenderer) { r.nodes = true } }

// WithSeed records the seed the lattice was generated from.
func WithSeed(seed uint64) JSONOption { return func(r *jsonRenderer) { r.seed = &seed } }

type jsonOutput struct {
	Width       int                 `json:"width"`
	Height      int                 `json:"height"`
	Probability float64             `json:"probability"`
	Seed        *uint64             `json:"seed,omitempty"`
	Bonds       int                 `json:"bonds"`
	Complete    bool                `json:"complete"`
	Leaks       bool                `json:"leaks"`
	Clusters    []ClusterJSON       `json:"clusters"`
	Histogram   []cluster.SizeCount `json:"histogram,omitempty"`
}

// ClusterJSON is the exported form of one cluster.
type ClusterJSON struct {
	ID     cluster.ID      `json:"id"`
	Area   int             `json:"area"`
	Center [2]float64      `json:"center"`
	Radius float64         `json:"radius"`
	Color  string          `json:"color"`
	Spans  bool            `json:"spans,omitempty"`
	Nodes  []cluster.Point `json:"nodes,omitempty"`
}

// RenderJSON exports the lattice summary and cluster statistics as a
// pretty-printed JSON document. Clusters appear in ID order.
func RenderJSON(l *lattice.Lattice, ix *cluster.Index, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if ix.Width() != l.Width() || ix.Height() != l.Height() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"cluster index is %dx%d but lattice is %dx%d", ix.Width(), ix.Height(), l.Width(), l.Height())
	}

	out := jsonOutput{
		Width:       l.Width(),
		Height:      l.Height(),
		Probability: l.Probability(),
		Seed:        r.seed,
		Bonds:       l.Bonds(),
		Complete:    ix.Complete(),
		Leaks:       ix.Leaks(),
		Clusters:    make([]ClusterJSON, 0, ix.Len()),
	}
	for i := range ix.Len() {
		out.Clusters = append(out.Clusters, ClusterSummary(ix.Cluster(cluster.ID(i)), r.nodes))
	}
	if r.histogram && ix.Complete() {
		hist, err := ix.SizeHistogram()
		if err != nil {
			return nil, err
		}
		out.Histogram = hist
	}

	return json.MarshalIndent(out, "", "  ")
}

// ClusterSummary converts c for export. nodes lists its cells.
func ClusterSummary(c *cluster.Cluster, nodes bool) ClusterJSON {
	x, y := c.CenterOfMass()
	jc := ClusterJSON{
		ID:     c.ID(),
		Area:   c.Area(),
		Center: [2]float64{x, y},
		Radius: c.Radius(),
		Color:  Hex(c.Color()),
		Spans:  c.Spans(),
	}
	if nodes {
		jc.Nodes = c.Nodes()
	}
	return jc
}

// Hex formats c as "#rrggbb", ignoring alpha.
func Hex(c color.RGBA) string {
	c.A = 0xff
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

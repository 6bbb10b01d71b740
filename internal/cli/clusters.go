package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/pipeline"
	"github.com/matzehuels/percolator/pkg/render/sink"
)

// histogramBarWidth is the length of the longest histogram bar.
const histogramBarWidth = 30

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// clustersCommand creates the clusters command.
func (c *CLI) clustersCommand() *cobra.Command {
	var (
		lf  latticeFlags
		top int
	)

	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Print cluster statistics and the size histogram",
		Example: `  percolator clusters --width 50 --height 50 -p 0.45 --top 5
  percolator clusters -i grid.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &lf, nil)
			if err != nil {
				return err
			}
			opts.Mode = pipeline.ModeFull
			return c.runClusters(cmd.Context(), opts, top)
		},
	}

	lf.register(cmd)
	cmd.Flags().IntVar(&top, "top", 10, "list the N largest clusters (0 to skip)")

	return cmd
}

func (c *CLI) runClusters(ctx context.Context, opts pipeline.Options, top int) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	l, err := runner.Generate(ctx, opts)
	if err != nil {
		return err
	}
	ix := runner.Cluster(ctx, l, opts)

	hist, err := ix.SizeHistogram()
	if err != nil {
		return err
	}

	printSuccess("%d clusters", ix.Len())
	printKeyValue("Lattice", fmt.Sprintf("%dx%d", l.Width(), l.Height()))
	printKeyValue("Probability", strconv.FormatFloat(l.Probability(), 'g', 4, 64))
	printKeyValue("Bonds", strconv.Itoa(l.Bonds()))
	printKeyValue("Leaks", strconv.FormatBool(ix.Leaks()))
	if largest := ix.Largest(); largest != nil {
		printKeyValue("Largest", fmt.Sprintf("%d cells (%.1f%%)", largest.Area(), 100*float64(largest.Area())/float64(l.Cells())))
	}
	printNewline()

	fmt.Println(StyleTitle.Render("Size histogram"))
	fmt.Println(histogramTable(hist).Render())

	if top > 0 {
		printNewline()
		fmt.Println(StyleTitle.Render(fmt.Sprintf("Largest %d clusters", min(top, ix.Len()))))
		fmt.Println(clusterTable(largestClusters(ix, top)).Render())
	}
	return nil
}

// largestClusters returns up to n clusters by descending area, lowest ID
// first among equals.
func largestClusters(ix *cluster.Index, n int) []*cluster.Cluster {
	all := make([]*cluster.Cluster, ix.Len())
	for i := range all {
		all[i] = ix.Cluster(cluster.ID(i))
	}
	slices.SortStableFunc(all, func(a, b *cluster.Cluster) int {
		return cmp.Compare(b.Area(), a.Area())
	})
	return all[:min(n, len(all))]
}

// histogramRows formats the histogram with bars scaled to the largest count.
func histogramRows(hist []cluster.SizeCount) [][]string {
	peak := 0
	for _, h := range hist {
		peak = max(peak, h.Count)
	}
	rows := make([][]string, 0, len(hist))
	for _, h := range hist {
		n := 0
		if peak > 0 {
			n = max(1, h.Count*histogramBarWidth/peak)
		}
		rows = append(rows, []string{strconv.Itoa(h.Size), strconv.Itoa(h.Count), strings.Repeat("█", n)})
	}
	return rows
}

func histogramTable(hist []cluster.SizeCount) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Size", "Count", "").
		Rows(histogramRows(hist)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return tableHeaderStyle
			case col == 2:
				return StyleHighlight
			}
			return StyleValue.Align(lipgloss.Right)
		})
}

func clusterTable(clusters []*cluster.Cluster) *table.Table {
	rows := make([][]string, len(clusters))
	for i, cl := range clusters {
		x, y := cl.CenterOfMass()
		spans := ""
		if cl.Spans() {
			spans = "✓"
		}
		rows[i] = []string{
			strconv.Itoa(int(cl.ID())),
			strconv.Itoa(cl.Area()),
			fmt.Sprintf("(%.1f, %.1f)", x, y),
			fmt.Sprintf("%.2f", cl.Radius()),
			sink.Hex(cl.Color()),
			spans,
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Area", "Center", "Radius", "Color", "Spans").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 4 && row >= 0 && row < len(rows) {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(rows[row][4]))
			}
			return StyleValue
		})
}

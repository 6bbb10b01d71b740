package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/percolator/pkg/pipeline"
)

// sweepCommand creates the sweep command.
func (c *CLI) sweepCommand() *cobra.Command {
	var opts pipeline.SweepOptions

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Estimate the leak probability across a range of bond probabilities",
		Long: `Estimate the leak probability across a range of bond probabilities.

For each of --steps evenly spaced probabilities between --from and --to,
--trials random lattices are generated and the fraction with a spanning
cluster is reported. The same --seed always gives the same table.`,
		Example: `  percolator sweep --width 100 --height 100 --from 0.4 --to 0.6 --steps 21
  percolator sweep --trials 200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if !fs.Changed("width") {
				opts.Width = c.Config.Lattice.Width
			}
			if !fs.Changed("height") {
				opts.Height = c.Config.Lattice.Height
			}
			if !fs.Changed("seed") {
				opts.Seed = c.Config.Lattice.Seed
			}
			opts.Logger = c.Logger
			return c.runSweep(cmd, opts)
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&opts.Width, "width", pipeline.DefaultWidth, "lattice width in cells")
	fs.IntVar(&opts.Height, "height", pipeline.DefaultHeight, "lattice height in cells")
	fs.Float64Var(&opts.From, "from", 0, "lowest bond probability")
	fs.Float64Var(&opts.To, "to", 1, "highest bond probability")
	fs.IntVar(&opts.Steps, "steps", pipeline.DefaultSweepSteps, "number of probabilities, both ends included")
	fs.IntVar(&opts.Trials, "trials", pipeline.DefaultSweepTrials, "lattices per probability")
	fs.Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "random seed")

	return cmd
}

func (c *CLI) runSweep(cmd *cobra.Command, opts pipeline.SweepOptions) error {
	spinner := newSpinnerWithContext(cmd.Context(), "Sweeping...")
	spinner.Start()
	points, err := pipeline.Sweep(cmd.Context(), opts, func(done, total int) {
		spinner.SetMessage(fmt.Sprintf("Sweeping... %d/%d", done, total))
	})
	if err != nil {
		spinner.StopWithError("Sweep failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Swept %d probabilities", len(points)))

	fmt.Println(sweepTable(points).Render())
	return nil
}

// sweepRows formats sweep points with a bar proportional to the leak fraction.
func sweepRows(points []pipeline.SweepPoint) [][]string {
	rows := make([][]string, len(points))
	for i, pt := range points {
		f := pt.Fraction()
		rows[i] = []string{
			strconv.FormatFloat(pt.Probability, 'f', 3, 64),
			fmt.Sprintf("%d/%d", pt.Leaks, pt.Trials),
			strconv.FormatFloat(f, 'f', 3, 64),
			strings.Repeat("█", int(f*histogramBarWidth+0.5)),
		}
	}
	return rows
}

func sweepTable(points []pipeline.SweepPoint) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("p", "Leaks", "Fraction", "").
		Rows(sweepRows(points)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return tableHeaderStyle
			case col == 3:
				return StyleHighlight
			}
			return StyleValue.Align(lipgloss.Right)
		})
}

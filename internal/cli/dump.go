package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/pipeline"
)

// dumpCommand creates the dump command: print a lattice as text.
func (c *CLI) dumpCommand() *cobra.Command {
	var (
		lf     latticeFlags
		glyphs bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print a lattice in its text encoding",
		Long: `Print a lattice in its text encoding.

Each cell is a digit: 1 for a bond to the right neighbour, 2 for a bond to
the neighbour below, 3 for both, 0 for neither. Rows are separated by
newlines. The output can be read back with --input or 'percolator load'.

With --glyphs the lattice is drawn with block characters instead.`,
		Example: `  percolator dump --width 20 --height 10 --seed 7 -o grid.txt
  percolator dump --glyphs -p 0.6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &lf, nil)
			if err != nil {
				return err
			}
			l, err := pipeline.NewRunner(nil, nil, c.Logger).Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}

			text := l.String() + "\n"
			if glyphs {
				text = l.Glyphs()
			}
			if output != "" {
				if err := errors.ValidatePath(output); err != nil {
					return err
				}
			}
			out, err := openOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()
			if _, err := fmt.Fprint(out, text); err != nil {
				return err
			}
			c.Logger.Debug("dumped lattice", "width", l.Width(), "height", l.Height(), "bonds", l.Bonds())
			if output != "" && !glyphs {
				printSuccess("Wrote %s", output)
				printNextStep("Render it", "percolator render -i "+output)
			}
			return nil
		},
	}

	lf.register(cmd)
	cmd.Flags().BoolVarP(&glyphs, "glyphs", "g", false, "draw with block characters")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// loadCommand creates the load command: parse a lattice file and summarize it.
func (c *CLI) loadCommand() *cobra.Command {
	var glyphs bool

	cmd := &cobra.Command{
		Use:   "load FILE",
		Short: "Validate a lattice text file and print its statistics",
		Long: `Validate a lattice text file and print its statistics.

The probability of a loaded lattice is the observed fraction of present
bonds among the slots that can hold one. Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[0])
			if err != nil {
				return err
			}
			opts := pipeline.Options{Text: text, Mode: pipeline.ModeFull, Logger: c.Logger}
			runner := pipeline.NewRunner(nil, nil, c.Logger)
			l, err := runner.Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			ix := runner.Cluster(cmd.Context(), l, opts)

			printSuccess("Loaded %s", args[0])
			printKeyValue("Size", fmt.Sprintf("%dx%d", l.Width(), l.Height()))
			printKeyValue("Bonds", strconv.Itoa(l.Bonds()))
			printKeyValue("Probability", strconv.FormatFloat(l.Probability(), 'g', 4, 64))
			printKeyValue("Clusters", strconv.Itoa(ix.Len()))
			printKeyValue("Leaks", strconv.FormatBool(ix.Leaks()))
			if glyphs {
				printNewline()
				fmt.Print(colorGlyphs(l, ix))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&glyphs, "glyphs", "g", false, "draw the lattice colored by cluster")

	return cmd
}

// clusterLabel formats a cluster ID for display.
func clusterLabel(c *cluster.Cluster) string {
	if c == nil {
		return "none"
	}
	return "#" + strconv.Itoa(int(c.ID()))
}

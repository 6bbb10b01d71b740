package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/percolator/pkg/pipeline"
)

// errNoLeak is returned by "leak --exit-code" when no cluster spans.
var errNoLeak = fmt.Errorf("no spanning cluster")

// leakCommand creates the leak command.
func (c *CLI) leakCommand() *cobra.Command {
	var (
		lf       latticeFlags
		exitCode bool
	)

	cmd := &cobra.Command{
		Use:   "leak",
		Short: "Report whether a cluster spans from the left edge to the right edge",
		Long: `Report whether a cluster spans from the left edge to the right edge.

Only clusters reachable from the left or right column are traversed, which
is all the leak answer needs.`,
		Example: `  percolator leak --width 200 --height 200 -p 0.5
  percolator leak -i grid.txt --exit-code`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &lf, nil)
			if err != nil {
				return err
			}
			opts.Mode = pipeline.ModeBoundary
			leaks, err := c.runLeak(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if exitCode && !leaks {
				return errNoLeak
			}
			return nil
		},
	}

	lf.register(cmd)
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with an error when no cluster spans")

	return cmd
}

func (c *CLI) runLeak(ctx context.Context, opts pipeline.Options) (bool, error) {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	prog := newProgress(c.Logger)

	l, err := runner.Generate(ctx, opts)
	if err != nil {
		return false, err
	}
	ix := runner.Cluster(ctx, l, opts)
	prog.done(fmt.Sprintf("Traversed %d boundary clusters", ix.Len()))

	if ix.Leaks() {
		printSuccess("Leaks: a cluster spans from left to right")
	} else {
		printInfo("No leak")
	}
	printDetail("%dx%d lattice · p=%.4g · %d bonds", l.Width(), l.Height(), l.Probability(), l.Bonds())
	return ix.Leaks(), nil
}

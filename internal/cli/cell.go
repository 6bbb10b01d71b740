package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/pipeline"
	"github.com/matzehuels/percolator/pkg/render"
)

// cellCommand creates the cell command: map an image pixel to its cell.
func (c *CLI) cellCommand() *cobra.Command {
	var (
		lf latticeFlags
		rf renderFlags
	)

	cmd := &cobra.Command{
		Use:   "cell PX PY",
		Short: "Show the cell and cluster under a pixel of the rendered image",
		Long: `Show the cell and cluster under a pixel of the rendered image.

Pass the same lattice and render flags used for 'percolator render'. Pixels
in the padding or outside the image map to the nearest edge cell.`,
		Example: `  percolator cell 120 45 --seed 7
  percolator cell 240 90 --seed 7 --scale 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			px, py, err := parsePixel(args[0], args[1])
			if err != nil {
				return err
			}
			opts, err := c.options(cmd, &lf, &rf)
			if err != nil {
				return err
			}
			return c.runCell(cmd, opts, px, py)
		},
	}

	lf.register(cmd)
	rf.register(cmd)

	return cmd
}

func (c *CLI) runCell(cmd *cobra.Command, opts pipeline.Options, px, py int) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	l, err := runner.Generate(cmd.Context(), opts)
	if err != nil {
		return err
	}
	ix := runner.Cluster(cmd.Context(), l, opts)
	eng, err := render.NewEngine(opts.Geometry)
	if err != nil {
		return err
	}

	x, y := eng.CellAt(px/opts.Scale, py/opts.Scale, l)
	printKeyValue("Cell", fmt.Sprintf("(%d, %d)", x, y))
	printKeyValue("Glyph", l.Glyph(x, y))
	cl := ix.ClusterAt(x, y)
	printKeyValue("Cluster", clusterLabel(cl))
	if cl == nil {
		return nil
	}
	cx, cy := cl.CenterOfMass()
	printKeyValue("Area", strconv.Itoa(cl.Area()))
	printKeyValue("Center", fmt.Sprintf("(%.2f, %.2f)", cx, cy))
	printKeyValue("Radius", fmt.Sprintf("%.2f", cl.Radius()))
	printKeyValue("Spans", strconv.FormatBool(cl.Spans()))
	return nil
}

// parsePixel parses non-negative pixel coordinates.
func parsePixel(sx, sy string) (px, py int, err error) {
	px, errX := strconv.Atoi(sx)
	py, errY := strconv.Atoi(sy)
	if errX != nil || errY != nil || px < 0 || py < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "pixel coordinates must be non-negative integers, got %q %q", sx, sy)
	}
	return px, py, nil
}

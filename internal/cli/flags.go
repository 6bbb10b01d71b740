package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/pipeline"
	"github.com/matzehuels/percolator/pkg/render"
)

// Flags override the config file only when given on the command line, so
// registered defaults are for help output.

// latticeFlags select or generate the lattice a command works on.
type latticeFlags struct {
	width  int
	height int
	prob   float64
	seed   uint64
	input  string
}

func (f *latticeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.width, "width", pipeline.DefaultWidth, "lattice width in cells")
	fs.IntVar(&f.height, "height", pipeline.DefaultHeight, "lattice height in cells")
	fs.Float64VarP(&f.prob, "probability", "p", pipeline.DefaultProbability, "bond probability in [0, 1]")
	fs.Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed")
	fs.StringVarP(&f.input, "input", "i", "", "read lattice text from a file (- for stdin) instead of generating")
}

func (f *latticeFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	fs := cmd.Flags()
	if fs.Changed("width") {
		opts.Width = f.width
	}
	if fs.Changed("height") {
		opts.Height = f.height
	}
	if fs.Changed("probability") {
		opts.Probability = f.prob
	}
	if fs.Changed("seed") {
		opts.Seed = f.seed
	}
	if f.input != "" {
		text, err := readInput(f.input)
		if err != nil {
			return err
		}
		opts.Text = text
	}
	return nil
}

// readInput reads lattice text from path, or stdin for "-".
func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read lattice %s", path)
	}
	if len(data) == 0 {
		return "", errors.New(errors.ErrCodeInvalidText, "lattice file %s is empty", path)
	}
	return string(data), nil
}

// renderFlags control clustering and drawing.
type renderFlags struct {
	geom       render.Geometry
	scale      int
	background string
	passive    string
	mode       string
	colorSeed  uint64
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	def := render.DefaultGeometry
	fs.IntVar(&f.geom.LineLength, "line-length", def.LineLength, "distance between tile centers in pixels")
	fs.IntVar(&f.geom.LineWidth, "line-width", def.LineWidth, "bond thickness in pixels")
	fs.IntVar(&f.geom.PointDiameter, "point-diameter", def.PointDiameter, "cell marker diameter in pixels")
	fs.IntVar(&f.geom.Padding, "padding", def.Padding, "border around the image in pixels")
	fs.IntVar(&f.scale, "scale", pipeline.DefaultScale, "integer PNG upscale factor")
	fs.StringVar(&f.background, "background", "#000000", "background color")
	fs.StringVar(&f.passive, "passive", "#808080", "color of cells outside every discovered cluster")
	fs.StringVar(&f.mode, "mode", pipeline.ModeFull, "cluster mode: full, boundary")
	fs.Uint64Var(&f.colorSeed, "color-seed", 0, "seed for cluster colors (default: lattice seed)")
}

func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("line-length") {
		opts.Geometry.LineLength = f.geom.LineLength
	}
	if fs.Changed("line-width") {
		opts.Geometry.LineWidth = f.geom.LineWidth
	}
	if fs.Changed("point-diameter") {
		opts.Geometry.PointDiameter = f.geom.PointDiameter
	}
	if fs.Changed("padding") {
		opts.Geometry.Padding = f.geom.Padding
	}
	if fs.Changed("scale") {
		opts.Scale = f.scale
	}
	if fs.Changed("background") {
		opts.Background = f.background
	}
	if fs.Changed("passive") {
		opts.Passive = f.passive
	}
	if fs.Changed("mode") {
		opts.Mode = f.mode
	}
	if fs.Changed("color-seed") {
		opts.ColorSeed = f.colorSeed
	}
}

// options starts from the config file and applies the command's flags.
// rf may be nil for commands that do not render.
func (c *CLI) options(cmd *cobra.Command, lf *latticeFlags, rf *renderFlags) (pipeline.Options, error) {
	opts := c.Config.Options()
	opts.Logger = c.Logger
	if err := lf.apply(cmd, &opts); err != nil {
		return opts, err
	}
	if rf != nil {
		rf.apply(cmd, &opts)
	}
	return opts, nil
}

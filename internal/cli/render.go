package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/pipeline"
)

// defaultOutputBase names output files when --output is not given.
const defaultOutputBase = "lattice"

// renderCommand creates the render command: generate, cluster and draw.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		lf         latticeFlags
		rf         renderFlags
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
		histogram  bool
		nodes      bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Generate a lattice and render its clusters",
		Long: `Generate a lattice and render its clusters.

Each cluster is drawn in its own color. In boundary mode only clusters that
touch the left or right edge are colored; all other cells use the passive
color.

Formats: png (default), json (cluster statistics), txt (lattice text),
dot and svg (node-link diagram via Graphviz; small lattices only).

Rendered artifacts are cached locally for faster subsequent runs.`,
		Example: `  percolator render --width 80 --height 60 -p 0.5 -o grid.png
  percolator render -i grid.txt -f png,json --scale 2 --mode boundary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &lf, &rf)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formatsStr)
			opts.Refresh = refresh
			opts.Histogram = histogram
			opts.Nodes = nodes
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	lf.register(cmd)
	rf.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), json, txt, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVar(&histogram, "histogram", false, "include the cluster size histogram (json)")
	cmd.Flags().BoolVar(&nodes, "nodes", false, "list every cell of every cluster (json)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %dx%d lattice", result.Lattice.Width(), result.Lattice.Height())
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.RenderHit)
	return nil
}

// outputPaths maps each format to its file. A single format writes to output
// as given; several formats share output as a base name with the extension
// replaced.
func outputPaths(formats []string, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = defaultOutputBase
	}
	if ext := filepath.Ext(base); pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		base = strings.TrimSuffix(base, ext)
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes each artifact and returns the paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) ([]string, error) {
	paths := outputPaths(formats, output)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := paths[f]
		if err := errors.ValidatePath(path); err != nil {
			return written, err
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

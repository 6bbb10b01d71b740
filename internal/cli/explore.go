package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/lattice"
	"github.com/matzehuels/percolator/pkg/pipeline"
)

// probabilityStep is the change per +/- key press in the explorer.
const probabilityStep = 0.05

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var lf latticeFlags

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse lattices interactively in the terminal",
		Long: `Browse lattices interactively in the terminal.

Each cluster is drawn in its own color. Keys:
  r      new lattice (next seed)
  + -    raise or lower the bond probability
  [ ]    remove or add a column
  { }    remove or add a row
  b      toggle boundary mode, which only colors clusters touching the
         left or right edge
  q      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &lf, nil)
			if err != nil {
				return err
			}
			m, err := newExploreModel(cmd.Context(), pipeline.NewRunner(nil, nil, c.Logger), opts)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	lf.register(cmd)

	return cmd
}

// exploreModel is the bubbletea model behind the explore command.
type exploreModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	opts   pipeline.Options

	lat *lattice.Lattice
	ix  *cluster.Index
	err error
}

func newExploreModel(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (exploreModel, error) {
	if opts.Mode == "" {
		opts.Mode = pipeline.ModeFull
	}
	m := exploreModel{ctx: ctx, runner: runner, opts: opts}
	if err := m.rebuild(); err != nil {
		return m, err
	}
	// Later rebuilds draw random lattices at the loaded lattice's density.
	if m.opts.Text != "" {
		m.opts.Text = ""
		m.opts.Width, m.opts.Height = m.lat.Width(), m.lat.Height()
		m.opts.Probability = math.Round(m.lat.Probability()*100) / 100
	}
	return m, nil
}

func (m *exploreModel) rebuild() error {
	m.opts.ColorSeed = m.opts.Seed
	l, err := m.runner.Generate(m.ctx, m.opts)
	if err != nil {
		return err
	}
	m.lat = l
	m.ix = m.runner.Cluster(m.ctx, l, m.opts)
	return nil
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		m.opts.Seed++
	case "+", "=":
		m.opts.Probability = stepProbability(m.opts.Probability, probabilityStep)
	case "-", "_":
		m.opts.Probability = stepProbability(m.opts.Probability, -probabilityStep)
	case "[", "]", "{", "}":
		m.err = m.resize(key.String())
		return m, nil
	case "b":
		if m.opts.Mode == pipeline.ModeBoundary {
			m.opts.Mode = pipeline.ModeFull
		} else {
			m.opts.Mode = pipeline.ModeBoundary
		}
	default:
		return m, nil
	}
	m.err = m.rebuild()
	return m, nil
}

// resize grows or shrinks the current lattice by one column or row and
// relabels it. Later rebuilds keep the new size.
func (m *exploreModel) resize(k string) error {
	w, h := m.lat.Width(), m.lat.Height()
	switch k {
	case "[":
		w--
	case "]":
		w++
	case "{":
		h--
	case "}":
		h++
	}
	w, h = max(w, 1), max(h, 1)
	if err := m.lat.Resize(w, h); err != nil {
		return err
	}
	m.opts.Width, m.opts.Height = w, h
	m.ix = m.runner.Cluster(m.ctx, m.lat, m.opts)
	return nil
}

// stepProbability moves p by delta, clamped to [0, 1] and rounded to
// hundredths so repeated steps do not drift.
func stepProbability(p, delta float64) float64 {
	return math.Round(max(0, min(1, p+delta))*100) / 100
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Percolator"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("r new lattice  +/- probability  [/] width  {/} height  b boundary mode  q quit"))
	b.WriteString("\n\n")

	b.WriteString(colorGlyphs(m.lat, m.ix))
	b.WriteString("\n")
	b.WriteString(m.status())
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styleIconError.Render(iconError + " " + m.err.Error()))
	}
	return b.String()
}

func (m exploreModel) status() string {
	leak := "no leak"
	if m.ix.Leaks() {
		leak = styleLeak.Render("leaks")
	}
	parts := []string{
		fmt.Sprintf("%dx%d", m.lat.Width(), m.lat.Height()),
		fmt.Sprintf("p=%.2f", m.opts.Probability),
		fmt.Sprintf("seed %d", m.opts.Seed),
		m.opts.Mode,
		fmt.Sprintf("%d clusters", m.ix.Len()),
	}
	return StyleDim.Render(strings.Join(parts, " · ")+" · ") + leak
}

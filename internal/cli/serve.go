package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/percolator/internal/server"
	"github.com/matzehuels/percolator/pkg/cache"
	"github.com/matzehuels/percolator/pkg/pipeline"
)

// serveKeyPrefix separates server cache entries from CLI ones in a shared
// Redis database.
const serveKeyPrefix = "serve:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renderings, leak checks and sweeps over HTTP",
		Long: `Serve renderings, leak checks and sweeps over HTTP.

Routes:
  GET  /render/{format}   render a generated lattice (png, json, txt, dot, svg)
  POST /render/{format}   render the lattice text in the request body
  GET  /leak              leak check in boundary mode
  GET  /cell?px=&py=      cluster under a pixel of the PNG
  GET  /sweep             leak fraction across probabilities
  GET  /metrics           Prometheus metrics
  GET  /healthz           liveness`,
		Example: `  percolator serve --addr :9000
  curl -o grid.png 'localhost:8080/render/png?width=80&height=50&p=0.5'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, addr string, noCache bool) error {
	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	server.NewMetrics(reg).Register()

	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, serveKeyPrefix), c.Logger)
	runner.TTL = c.Config.Cache.TTL
	defer runner.Close()

	srv := server.New(runner, c.Logger,
		server.WithDefaults(c.Config.Options()),
		server.WithGatherer(reg),
	)
	printInfo("Listening on %s", StyleHighlight.Render(addr))
	return srv.Run(ctx, addr)
}

// Package server exposes the percolation pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz             build info
//	GET  /metrics             Prometheus metrics
//	GET  /render/{format}     generate and render a lattice (png, json, txt, dot, svg)
//	POST /render/{format}     render the lattice text in the request body
//	GET  /leak                leak answer from the boundary-seeded traversal
//	POST /leak                same, for the lattice text in the body
//	GET  /cell?px=&py=        cluster under an output pixel of the PNG rendering
//	GET  /sweep               leak probability over a range of bond probabilities
//
// Lattice and geometry parameters are query parameters; see [Server.options].
// Every response carries an X-Request-ID header.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/percolator/pkg/pipeline"
)

const (
	// maxBodyBytes bounds POSTed lattice text.
	maxBodyBytes = 4 << 20

	// maxSweepCells bounds cells × trials × steps for one sweep request.
	maxSweepCells = 50_000_000

	shutdownTimeout = 10 * time.Second
)

// Server serves the pipeline over HTTP.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	gatherer prometheus.Gatherer
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the options requests start from before query parameters
// are applied.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// WithGatherer serves metrics from g on /metrics. Without it /metrics serves
// the default Prometheus registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		logger: logger,
		defaults: pipeline.Options{
			Width:       pipeline.DefaultWidth,
			Height:      pipeline.DefaultHeight,
			Probability: pipeline.DefaultProbability,
		},
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(logRequests(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Get("/render/{format}", instrument("/render/{format}", s.handleRender))
	r.Post("/render/{format}", instrument("/render/{format}", s.handleRender))
	r.Get("/leak", instrument("/leak", s.handleLeak))
	r.Post("/leak", instrument("/leak", s.handleLeak))
	r.Get("/cell", instrument("/cell", s.handleCell))
	r.Get("/sweep", instrument("/sweep", s.handleSweep))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", RequestID: RequestID(r.Context())})
	})
	return r
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

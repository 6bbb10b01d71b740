package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/percolator/pkg/buildinfo"
	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/pipeline"
	"github.com/matzehuels/percolator/pkg/render"
	"github.com/matzehuels/percolator/pkg/render/sink"
)

var contentTypes = map[string]string{
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type leakResponse struct {
	RunID       string  `json:"run_id"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Probability float64 `json:"probability"`
	Leaks       bool    `json:"leaks"`
	Clusters    int     `json:"clusters"` // discovered from the boundary only
}

type cellResponse struct {
	X       int               `json:"x"`
	Y       int               `json:"y"`
	Cluster *sink.ClusterJSON `json:"cluster"`
}

type sweepResponse struct {
	Width  int                   `json:"width"`
	Height int                   `json:"height"`
	Seed   uint64                `json:"seed"`
	Points []pipeline.SweepPoint `json:"points"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cache := "miss"
	if res.CacheInfo.RenderHit {
		cache = "hit"
	}
	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("X-Run-ID", res.RunID)
	h.Set("X-Cache", cache)
	h.Set("X-Leaks", strconv.FormatBool(res.Stats.Leaks))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[format])
}

func (s *Server) handleLeak(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Mode = pipeline.ModeBoundary

	l, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ix := s.runner.Cluster(r.Context(), l, opts)

	writeJSON(w, http.StatusOK, leakResponse{
		RunID:       RequestID(r.Context()),
		Width:       l.Width(),
		Height:      l.Height(),
		Probability: l.Probability(),
		Leaks:       ix.Leaks(),
		Clusters:    ix.Len(),
	})
}

// handleCell maps an output pixel of the PNG rendering with the same
// parameters back to its cell and reports the cell's cluster.
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	px, py, err := pixel(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	l, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ix := s.runner.Cluster(r.Context(), l, opts)
	eng, err := render.NewEngine(opts.Geometry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	x, y := eng.CellAt(px/opts.Scale, py/opts.Scale, l)
	resp := cellResponse{X: x, Y: y}
	if c := ix.ClusterAt(x, y); c != nil {
		summary := sink.ClusterSummary(c, false)
		resp.Cluster = &summary
	}
	writeJSON(w, http.StatusOK, resp)
}

func pixel(r *http.Request) (px, py int, err error) {
	q := &query{values: r.URL.Query()}
	px, py = -1, -1
	q.int("px", &px)
	q.int("py", &py)
	if q.err != nil {
		return 0, 0, q.err
	}
	if px < 0 || py < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "px and py must be given and non-negative")
	}
	return px, py, nil
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	opts, err := s.sweepOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger

	points, err := pipeline.Sweep(r.Context(), opts, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sweepResponse{
		Width:  opts.Width,
		Height: opts.Height,
		Seed:   opts.Seed,
		Points: points,
	})
}

// statusCode maps error codes to HTTP statuses.
func statusCode(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
		msg = fmt.Sprintf("internal error (request %s)", RequestID(r.Context()))
	}
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      string(errors.GetCode(err)),
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

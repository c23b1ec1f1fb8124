package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/ChicagoDave/habitat/pkg/config"
	"github.com/ChicagoDave/habitat/pkg/curve"
	"github.com/ChicagoDave/habitat/pkg/pipeline"
)

// Server is the local HTTP front end for a single project configuration.
type Server struct {
	cfg    *config.Config
	runner *pipeline.Runner
	logger *zap.SugaredLogger
	port   int
}

// New creates a server for the given configuration.
func New(cfg *config.Config, runner *pipeline.Runner, logger *zap.SugaredLogger, port int) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{
		cfg:    cfg,
		runner: runner,
		logger: logger,
		port:   port,
	}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("GET /api/curves", s.handleCurves)
	mux.HandleFunc("GET /api/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("POST /api/run", s.handleRun)
	mux.HandleFunc("GET /", s.handleIndex)

	return mux
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Infof("habitat server starting on http://localhost%s", addr)
	s.logger.Infof("curves: %s", s.cfg.CurveFile)

	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Habitat</title></head>
<body style="margin:0;font-family:system-ui;padding:2rem">
<h1>Habitat suitability</h1>
<ul>
<li><a href="/api/config">/api/config</a></li>
<li><a href="/api/curves">/api/curves</a></li>
<li><a href="/api/evaluate?x=0.5">/api/evaluate?x=0.5</a></li>
<li><a href="/api/validation">/api/validation</a></li>
<li>POST /api/run</li>
</ul>
</body></html>`)
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg)
}

func (s *Server) handleCurves(w http.ResponseWriter, _ *http.Request) {
	store, err := curve.Load(s.cfg.CurveFile)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"source":   store.Source,
		"depth":    store.Depth.Points(),
		"velocity": store.Velocity.Points(),
	})
}

type evaluation struct {
	X          float64 `json:"x"`
	SIDepth    float64 `json:"si_depth"`
	SIVelocity float64 `json:"si_velocity"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query()["x"]
	if len(raw) == 0 {
		s.fail(w, http.StatusBadRequest, errors.New("at least one x query parameter is required"))
		return
	}
	xs := make([]float64, len(raw))
	for i, v := range raw {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.fail(w, http.StatusBadRequest, fmt.Errorf("parsing x=%q: %w", v, err))
			return
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			s.fail(w, http.StatusBadRequest, fmt.Errorf("x=%q is not a finite number", v))
			return
		}
		xs[i] = x
	}

	store, err := curve.Load(s.cfg.CurveFile)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	d := curve.Evaluate(store.Depth, xs)
	v := curve.Evaluate(store.Velocity, xs)
	out := make([]evaluation, len(xs))
	for i := range xs {
		if math.IsInf(d[i], 0) || math.IsInf(v[i], 0) {
			s.fail(w, http.StatusUnprocessableEntity, fmt.Errorf("x=%g extrapolates beyond the representable range", xs[i]))
			return
		}
		out[i] = evaluation{X: xs[i], SIDepth: d[i], SIVelocity: v[i]}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	out, err := s.runner.Evaluate(s.cfg)
	if out == nil || out.Report == nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      err.Error(),
			"validation": out.Report,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, out.Report)
}

// runRequest overrides selected config fields for one run. OutputDir is a
// relative path under the configured output directory.
type runRequest struct {
	Threshold *float64 `json:"threshold"`
	OutputDir string   `json:"output_dir"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	cfg := *s.cfg
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	if req.Threshold != nil {
		cfg.Threshold = *req.Threshold
	}
	if req.OutputDir != "" {
		if !filepath.IsLocal(req.OutputDir) {
			s.fail(w, http.StatusBadRequest, fmt.Errorf("output_dir %q must be a relative path inside %s", req.OutputDir, s.cfg.OutputDir))
			return
		}
		cfg.OutputDir = filepath.Join(s.cfg.OutputDir, req.OutputDir)
	}

	out, err := s.runner.Run(&cfg)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.logger.Warnw("request failed", "status", status, "error", err)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON encodes v before writing the header so an encoding failure
// becomes a 500 rather than a truncated 200.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Warnw("encoding response", "status", status, "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Warnw("writing response", "error", err)
	}
}

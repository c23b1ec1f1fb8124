// Package pipeline runs a complete habitat calculation: curves and rasters
// in, three suitability rasters and an area summary out.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ChicagoDave/habitat/pkg/accounting"
	"github.com/ChicagoDave/habitat/pkg/align"
	"github.com/ChicagoDave/habitat/pkg/config"
	"github.com/ChicagoDave/habitat/pkg/curve"
	"github.com/ChicagoDave/habitat/pkg/habitat"
	"github.com/ChicagoDave/habitat/pkg/raster"
	"github.com/ChicagoDave/habitat/pkg/validation"
)

// Source loads a raster from a path.
type Source interface {
	Read(path string) (*raster.Raster, error)
}

// Sink writes a raster to a path.
type Sink interface {
	Write(path string, r *raster.Raster, opts raster.WriteOptions) error
}

// Runner executes calculations against a raster backend.
type Runner struct {
	src    Source
	sink   Sink
	logger *zap.SugaredLogger
}

// New creates a runner. A nil logger disables logging.
func New(src Source, sink Sink, logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{src: src, sink: sink, logger: logger}
}

// Outcome is everything a successful run produced.
type Outcome struct {
	Summary   *accounting.AreaSummary `json:"summary"`
	Stats     habitat.Stats           `json:"stats"`
	Resampled bool                    `json:"resampled"`
	Outputs   []string                `json:"outputs,omitempty"`
	Report    *validation.Report      `json:"validation"`

	result *habitat.Result
}

// Evaluate runs every stage except writing outputs.
func (r *Runner) Evaluate(cfg *config.Config) (*Outcome, error) {
	report := validation.ValidateConfig(cfg)
	if err := report.Err(); err != nil {
		if terr := accounting.CheckThreshold(cfg.Threshold); terr != nil {
			return &Outcome{Report: report}, terr
		}
		return &Outcome{Report: report}, fmt.Errorf("invalid config: %w", err)
	}

	curves, err := curve.Load(cfg.CurveFile)
	if err != nil {
		return &Outcome{Report: report}, err
	}
	report.Merge(validation.ValidateCurves(curves))
	r.logger.Debugw("loaded curves", "file", cfg.CurveFile,
		"depth_points", curves.Depth.Len(), "velocity_points", curves.Velocity.Len())

	depth, err := r.src.Read(cfg.DepthRaster)
	if err != nil {
		return &Outcome{Report: report}, err
	}
	velocity, err := r.src.Read(cfg.VelocityRaster)
	if err != nil {
		return &Outcome{Report: report}, err
	}

	ref, other := depth, velocity
	if !cfg.DepthIsReference() {
		ref, other = velocity, depth
	}
	pair, err := align.Align(ref, other)
	if err != nil {
		return &Outcome{Report: report}, err
	}
	report.Merge(validation.AlignmentReport(pair))
	rows, cols := pair.Reference.Dims()
	r.logger.Infow("aligned rasters", "reference", pair.Reference.Source,
		"rows", rows, "cols", cols, "resampled", pair.Resampled)

	policy := habitat.NegativePolicy(cfg.NegativePolicy)
	res, err := habitat.Compute(habitat.LayersFromPair(pair, cfg.DepthIsReference()),
		curves.Depth, curves.Velocity, policy)
	if err != nil {
		return &Outcome{Report: report}, err
	}
	report.Merge(validation.CompositeReport(res.Stats, policy))

	summary, err := accounting.SummarizeRaster(res.Composite, cfg.Threshold)
	if err != nil {
		return &Outcome{Report: report}, err
	}
	summary.AreaUnit = align.AreaUnit(res.Composite.CRS)
	r.logger.Infow("usable habitat", "threshold", summary.Threshold,
		"cells", summary.MatchingCells, "area", summary.TotalArea)

	return &Outcome{
		Summary:   summary,
		Stats:     res.Stats,
		Resampled: pair.Resampled,
		Report:    report,
		result:    res,
	}, nil
}

// Run evaluates cfg and writes all three suitability rasters. Either every
// output is written or none is.
func (r *Runner) Run(cfg *config.Config) (*Outcome, error) {
	out, err := r.Evaluate(cfg)
	if err != nil {
		return out, err
	}

	paths := cfg.OutputPaths()
	if err := r.writeAll(cfg, paths, out.result); err != nil {
		return out, err
	}
	out.Outputs = paths[:]
	return out, nil
}

// writeAll stages each raster under a temporary name and renames them into
// place only once all three have been written.
func (r *Runner) writeAll(cfg *config.Config, paths [3]string, res *habitat.Result) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return &raster.WriteError{Path: cfg.OutputDir, Err: err}
	}

	opts := raster.WriteOptions{NoData: cfg.OutputNoData, Compress: cfg.Compress}
	layers := [3]*raster.Raster{res.Depth, res.Velocity, res.Composite}
	var staged []string
	cleanup := func() {
		for _, p := range staged {
			os.Remove(p)
		}
	}

	for i, p := range paths {
		tmp := filepath.Join(filepath.Dir(p), "."+filepath.Base(p)+".tmp")
		staged = append(staged, tmp)
		if err := r.sink.Write(tmp, layers[i], opts); err != nil {
			cleanup()
			return fmt.Errorf("writing %s: %w", filepath.Base(p), err)
		}
	}
	for i, p := range paths {
		if err := os.Rename(staged[i], p); err != nil {
			for _, done := range paths[:i] {
				os.Remove(done)
			}
			cleanup()
			return &raster.WriteError{Path: p, Err: err}
		}
		r.logger.Debugw("wrote raster", "path", p)
	}
	return nil
}

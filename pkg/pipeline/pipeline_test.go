package pipeline

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChicagoDave/habitat/pkg/accounting"
	"github.com/ChicagoDave/habitat/pkg/align"
	"github.com/ChicagoDave/habitat/pkg/config"
	"github.com/ChicagoDave/habitat/pkg/curve"
	"github.com/ChicagoDave/habitat/pkg/raster"
)

const scenarioCSV = `depth,si_depth,velocity,si_velocity
0,0.0,0,0.2
1,1.0,1,1.0
2,0.5,,
`

const utm33 = "+proj=utm +zone=33 +datum=WGS84 +units=m +no_defs"

type memSource map[string]*raster.Raster

func (m memSource) Read(path string) (*raster.Raster, error) {
	r, ok := m[path]
	if !ok {
		return nil, &raster.ReadError{Path: path, Err: os.ErrNotExist}
	}
	return r, nil
}

// fileSink records each write as a small file so renames can be observed.
type fileSink struct {
	failOn  string
	written map[string]*raster.Raster
	opts    raster.WriteOptions
}

func (s *fileSink) Write(path string, r *raster.Raster, opts raster.WriteOptions) error {
	if s.failOn != "" && strings.Contains(path, s.failOn) {
		return &raster.WriteError{Path: path, Err: errors.New("disk full")}
	}
	if s.written == nil {
		s.written = map[string]*raster.Raster{}
	}
	s.written[filepath.Base(path)] = r
	s.opts = opts
	return os.WriteFile(path, []byte("tif"), 0o644)
}

func setup(t *testing.T, depth, velocity *raster.Raster) (*config.Config, memSource) {
	t.Helper()
	dir := t.TempDir()
	curvePath := filepath.Join(dir, "curve.csv")
	if err := os.WriteFile(curvePath, []byte(scenarioCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.CurveFile = curvePath
	cfg.DepthRaster = "depth.tif"
	cfg.VelocityRaster = "velocity.tif"
	cfg.OutputDir = filepath.Join(dir, "out")
	depth.Source, velocity.Source = "depth.tif", "velocity.tif"
	return cfg, memSource{"depth.tif": depth, "velocity.tif": velocity}
}

func TestRunSingleCellScenario(t *testing.T) {
	gt := raster.GeoTransform{0, 2, 0, 0, 0, -2}
	cfg, src := setup(t,
		raster.FromValues(1, 1, []float64{1}, gt, utm33),
		raster.FromValues(1, 1, []float64{1}, gt, utm33))
	sink := &fileSink{}

	out, err := New(src, sink, nil).Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Summary.MatchingCells != 1 {
		t.Errorf("matching cells = %d, want 1", out.Summary.MatchingCells)
	}
	if out.Summary.TotalArea != 4 {
		t.Errorf("total area = %v, want 4", out.Summary.TotalArea)
	}
	if out.Summary.AreaUnit != "m²" {
		t.Errorf("area unit = %q, want m²", out.Summary.AreaUnit)
	}
	if got := sink.written[".cHSI.tif.tmp"].At(0, 0); got != 1 {
		t.Errorf("composite = %v, want 1", got)
	}
	if sink.opts.NoData != -9999 || sink.opts.Compress != "LZW" {
		t.Errorf("write options = %+v", sink.opts)
	}
	for _, p := range out.Outputs {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("output %s missing: %v", p, err)
		}
	}
	if len(out.Outputs) != 3 {
		t.Errorf("outputs = %v, want 3 paths", out.Outputs)
	}
}

func TestRunAllNoDataVelocity(t *testing.T) {
	gt := raster.GeoTransform{0, 1, 0, 0, 0, -1}
	cfg, src := setup(t,
		raster.FromValues(2, 2, []float64{1, 1, 1, 1}, gt, utm33),
		raster.New(2, 2, gt, utm33))

	out, err := New(src, &fileSink{}, nil).Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Summary.MatchingCells != 0 || out.Summary.TotalArea != 0 {
		t.Errorf("summary = %+v, want zero", out.Summary)
	}
	if len(out.Report.Warnings) == 0 {
		t.Error("expected an all-NoData warning")
	}
}

func TestRunResamplesVelocityOntoDepth(t *testing.T) {
	cfg, src := setup(t,
		raster.FromValues(4, 4, make([]float64, 16), raster.GeoTransform{0, 1, 0, 0, 0, -1}, utm33),
		raster.FromValues(2, 2, []float64{0, 0.5, 0.5, 1}, raster.GeoTransform{0, 2, 0, 0, 0, -2}, utm33))
	sink := &fileSink{}

	out, err := New(src, sink, nil).Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !out.Resampled {
		t.Error("expected resampling")
	}
	comp := sink.written[".cHSI.tif.tmp"]
	rows, cols := comp.Dims()
	if rows != 4 || cols != 4 {
		t.Errorf("composite dims = %dx%d, want 4x4", rows, cols)
	}
	if comp.Transform != (raster.GeoTransform{0, 1, 0, 0, 0, -1}) {
		t.Errorf("composite transform = %v", comp.Transform)
	}
}

func TestRunVelocityReference(t *testing.T) {
	cfg, src := setup(t,
		raster.FromValues(4, 4, make([]float64, 16), raster.GeoTransform{0, 1, 0, 0, 0, -1}, utm33),
		raster.FromValues(2, 2, []float64{0, 0.5, 0.5, 1}, raster.GeoTransform{0, 2, 0, 0, 0, -2}, utm33))
	cfg.Reference = config.ReferenceVelocity
	sink := &fileSink{}

	if _, err := New(src, sink, nil).Run(cfg); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	rows, cols := sink.written[".cHSI.tif.tmp"].Dims()
	if rows != 2 || cols != 2 {
		t.Errorf("composite dims = %dx%d, want velocity grid 2x2", rows, cols)
	}
	want := raster.GeoTransform{0, 2, 0, 0, 0, -2}
	for _, name := range []string{".SI_depth.tif.tmp", ".SI_velocity.tif.tmp", ".cHSI.tif.tmp"} {
		if got := sink.written[name].Transform; got != want {
			t.Errorf("%s transform = %v, want velocity grid %v", name, got, want)
		}
	}
}

func TestRunWriteFailureLeavesNoOutputs(t *testing.T) {
	gt := raster.GeoTransform{0, 1, 0, 0, 0, -1}
	cfg, src := setup(t,
		raster.FromValues(1, 1, []float64{1}, gt, utm33),
		raster.FromValues(1, 1, []float64{1}, gt, utm33))

	_, err := New(src, &fileSink{failOn: "cHSI"}, nil).Run(cfg)
	var we *raster.WriteError
	if !errors.As(err, &we) {
		t.Fatalf("expected WriteError, got %v", err)
	}
	entries, rerr := os.ReadDir(cfg.OutputDir)
	if rerr != nil {
		t.Fatal(rerr)
	}
	if len(entries) != 0 {
		names := []string{}
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("output dir should be empty, found %v", names)
	}
}

func TestRunMissingRaster(t *testing.T) {
	gt := raster.GeoTransform{0, 1, 0, 0, 0, -1}
	cfg, src := setup(t,
		raster.FromValues(1, 1, []float64{1}, gt, utm33),
		raster.FromValues(1, 1, []float64{1}, gt, utm33))
	cfg.VelocityRaster = "missing.tif"

	_, err := New(src, &fileSink{}, nil).Run(cfg)
	var re *raster.ReadError
	if !errors.As(err, &re) {
		t.Fatalf("expected ReadError, got %v", err)
	}
	if _, serr := os.Stat(cfg.OutputDir); !os.IsNotExist(serr) {
		t.Error("output dir should not be created when inputs fail")
	}
}

func TestRunBadCurve(t *testing.T) {
	gt := raster.GeoTransform{0, 1, 0, 0, 0, -1}
	cfg, src := setup(t,
		raster.FromValues(1, 1, []float64{1}, gt, utm33),
		raster.FromValues(1, 1, []float64{1}, gt, utm33))
	if err := os.WriteFile(cfg.CurveFile, []byte("0,0,0,0\n0,1,1,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(src, &fileSink{}, nil).Run(cfg)
	var de *curve.DuplicateAbscissaError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateAbscissaError, got %v", err)
	}
}

func TestRunIncompatibleCRS(t *testing.T) {
	gt := raster.GeoTransform{0, 1, 0, 0, 0, -1}
	cfg, src := setup(t,
		raster.FromValues(1, 1, []float64{1}, gt, utm33),
		raster.FromValues(1, 1, []float64{1}, gt, ""))

	_, err := New(src, &fileSink{}, nil).Run(cfg)
	var ce *align.IncompatibleCRSError
	if !errors.As(err, &ce) {
		t.Fatalf("expected IncompatibleCRSError, got %v", err)
	}
}

func TestEvaluateInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.DepthRaster = ""
	out, err := New(memSource{}, &fileSink{}, nil).Evaluate(cfg)
	if err == nil || !strings.Contains(err.Error(), "depth_raster is required") {
		t.Fatalf("err = %v, want depth_raster is required", err)
	}
	if out.Report == nil || out.Report.Valid {
		t.Error("expected an invalid report")
	}
}

func TestRunNonFiniteThreshold(t *testing.T) {
	gt := raster.GeoTransform{0, 1, 0, 0, 0, -1}
	for _, threshold := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		cfg, src := setup(t,
			raster.FromValues(1, 1, []float64{1}, gt, utm33),
			raster.FromValues(1, 1, []float64{1}, gt, utm33))
		cfg.Threshold = threshold

		out, err := New(src, &fileSink{}, nil).Run(cfg)
		var te *accounting.InvalidThresholdError
		if !errors.As(err, &te) {
			t.Fatalf("threshold %v: expected InvalidThresholdError, got %v", threshold, err)
		}
		if out.Report == nil || out.Report.Valid {
			t.Errorf("threshold %v: expected an invalid report", threshold)
		}
		entries, _ := os.ReadDir(cfg.OutputDir)
		if len(entries) != 0 {
			t.Errorf("threshold %v: output dir has %d entries, want none", threshold, len(entries))
		}
	}
}

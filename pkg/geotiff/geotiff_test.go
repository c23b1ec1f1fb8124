package geotiff

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/ChicagoDave/habitat/pkg/raster"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "si.tif")
	gt := raster.GeoTransform{500000, 2, 0, 4100000, 0, -2}
	src := raster.FromValues(2, 3, []float64{0, 0.25, math.NaN(), 0.5, 0.75, 1}, gt, "")

	var io IO
	if err := io.Write(path, src, raster.WriteOptions{NoData: -9999, Compress: "LZW"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := io.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	rows, cols := got.Dims()
	if rows != 2 || cols != 3 {
		t.Fatalf("dims = %dx%d, want 2x3", rows, cols)
	}
	if got.Transform != gt {
		t.Errorf("transform = %v, want %v", got.Transform, gt)
	}
	if !got.HasNoData || got.NoData != -9999 {
		t.Errorf("nodata = %v (%v), want -9999", got.NoData, got.HasNoData)
	}
	if !got.IsNoData(0, 2) {
		t.Errorf("cell (0,2) = %v, want NoData", got.At(0, 2))
	}
	if got.At(1, 1) != 0.75 {
		t.Errorf("cell (1,1) = %v, want 0.75", got.At(1, 1))
	}
	if got.Source != path {
		t.Errorf("source = %q, want %q", got.Source, path)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := IO{}.Read("/nonexistent/depth.tif")
	var re *raster.ReadError
	if !errors.As(err, &re) {
		t.Fatalf("expected ReadError, got %v", err)
	}
	if re.Path != "/nonexistent/depth.tif" {
		t.Errorf("path = %q", re.Path)
	}
}

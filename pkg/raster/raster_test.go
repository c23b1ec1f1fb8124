package raster

import (
	"errors"
	"math"
	"testing"
)

func TestGeoTransformApply(t *testing.T) {
	gt := GeoTransform{500000, 2, 0, 4100000, 0, -2}
	x, y := gt.Apply(0.5, 0.5)
	if x != 500001 || y != 4099999 {
		t.Errorf("Apply(0.5,0.5) = (%v,%v), want (500001,4099999)", x, y)
	}
}

func TestGeoTransformInvertRoundTrip(t *testing.T) {
	gt := GeoTransform{100, 2, 0.5, 200, 0.25, -3}
	inv, ok := gt.Invert()
	if !ok {
		t.Fatal("expected invertible transform")
	}
	for _, p := range [][2]float64{{0, 0}, {3.5, 7.25}, {-2, 10}} {
		x, y := gt.Apply(p[0], p[1])
		c, r := inv.Apply(x, y)
		if math.Abs(c-p[0]) > 1e-9 || math.Abs(r-p[1]) > 1e-9 {
			t.Errorf("round trip of %v = (%v,%v)", p, c, r)
		}
	}
}

func TestGeoTransformInvertSingular(t *testing.T) {
	if _, ok := (GeoTransform{0, 1, 1, 0, 1, 1}).Invert(); ok {
		t.Error("singular transform should not invert")
	}
}

func TestCellAreaNonSquare(t *testing.T) {
	gt := GeoTransform{0, 2, 0, 0, 0, -0.5}
	if got := gt.CellArea(); got != 1 {
		t.Errorf("CellArea = %v, want 1", got)
	}
	w, h := gt.PixelSize()
	if w != 2 || h != 0.5 {
		t.Errorf("PixelSize = (%v,%v), want (2,0.5)", w, h)
	}
}

func TestNewIsAllNoData(t *testing.T) {
	r := New(2, 3, Identity(), "")
	if r.ValidCount() != 0 {
		t.Errorf("ValidCount = %d, want 0", r.ValidCount())
	}
	rows, cols := r.Dims()
	if rows != 2 || cols != 3 {
		t.Errorf("Dims = (%d,%d), want (2,3)", rows, cols)
	}
}

func TestMaskAndFillSentinel(t *testing.T) {
	vals := []float64{1, -9999, 3}
	MaskSentinel(vals, -9999)
	if !IsNoData(vals[1]) {
		t.Fatalf("sentinel not masked: %v", vals)
	}
	out := FillSentinel(vals, -9999)
	if out[0] != 1 || out[1] != -9999 || out[2] != 3 {
		t.Errorf("FillSentinel = %v", out)
	}
}

func TestLikeKeepsSpatialReference(t *testing.T) {
	src := FromValues(1, 2, []float64{1, 2}, GeoTransform{10, 1, 0, 20, 0, -1}, "EPSG:32633")
	src.NoData = -1
	src.HasNoData = true
	l := src.Like()
	if l.Transform != src.Transform || l.CRS != src.CRS || l.NoData != -1 || !l.HasNoData {
		t.Errorf("Like lost spatial reference: %+v", l)
	}
	if l.ValidCount() != 0 {
		t.Error("Like should be NoData-filled")
	}
}

func TestReadErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := error(&ReadError{Path: "depth.tif", Err: base})
	if !errors.Is(err, base) {
		t.Error("ReadError should unwrap to its cause")
	}
	if err.Error() != "reading raster depth.tif: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

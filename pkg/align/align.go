// Package align puts two rasters on a common grid.
package align

import (
	"math"

	"github.com/ChicagoDave/habitat/pkg/raster"
	"github.com/ctessum/geom/proj"
	"gonum.org/v1/gonum/floats"
)

// transformTol is the absolute tolerance for treating two geotransforms as equal.
const transformTol = 1e-9

// Pair is two rasters sharing shape, transform and CRS: cell (i,j) in
// Reference and Other covers the same ground.
type Pair struct {
	Reference *raster.Raster
	Other     *raster.Raster
	Resampled bool
}

// Align returns other on reference's grid. When the grids already match,
// other is passed through untouched; otherwise it is bilinearly resampled.
func Align(reference, other *raster.Raster) (*Pair, error) {
	if reference.Georeferenced != other.Georeferenced {
		return nil, &IncompatibleCRSError{
			Reference: reference.Source,
			Other:     other.Source,
			Reason:    "georeferencing present on only one raster",
		}
	}

	if !reference.Georeferenced {
		if !sameShape(reference, other) {
			rr, rc := reference.Dims()
			or, oc := other.Dims()
			return nil, &ShapeMismatchError{
				Reference: reference.Source, Other: other.Source,
				RefRows: rr, RefCols: rc, OtherRows: or, OtherCols: oc,
			}
		}
		return &Pair{Reference: reference, Other: other}, nil
	}

	tr, err := reconcile(reference.CRS, other.CRS, reference.Source, other.Source)
	if err != nil {
		return nil, err
	}
	if tr == nil && sameShape(reference, other) && sameTransform(reference.Transform, other.Transform) {
		return &Pair{Reference: reference, Other: other}, nil
	}

	resampled, err := Resample(other, reference, tr)
	if err != nil {
		return nil, err
	}
	return &Pair{Reference: reference, Other: resampled, Resampled: true}, nil
}

// Resample samples src at every cell centre of onto's grid using bilinear
// interpolation. tr maps onto's CRS into src's CRS and may be nil when they
// agree. Cells outside src's extent, or touching a NoData neighbour, become
// NoData.
func Resample(src, onto *raster.Raster, tr proj.Transformer) (*raster.Raster, error) {
	inv, ok := src.Transform.Invert()
	if !ok {
		return nil, &IncompatibleCRSError{
			Reference: onto.Source,
			Other:     src.Source,
			Reason:    "geotransform is not invertible",
		}
	}

	out := onto.Like()
	out.NoData = src.NoData
	out.HasNoData = src.HasNoData
	out.Source = src.Source

	rows, cols := onto.Dims()
	vals := out.Values()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x, y := onto.Transform.Apply(float64(j)+0.5, float64(i)+0.5)
			if tr != nil {
				var err error
				if x, y, err = tr(x, y); err != nil {
					continue
				}
			}
			px, py := inv.Apply(x, y)
			vals[i*cols+j] = bilinear(src, px, py)
		}
	}
	return out, nil
}

// bilinear samples src at fractional pixel position (px, py), where integer
// coordinates fall on pixel corners.
func bilinear(src *raster.Raster, px, py float64) float64 {
	rows, cols := src.Dims()
	if math.IsNaN(px) || math.IsNaN(py) || px < 0 || py < 0 || px > float64(cols) || py > float64(rows) {
		return math.NaN()
	}

	// Shift to cell-centre coordinates; the outer half pixel uses the edge cell.
	fx := clamp(px-0.5, 0, float64(cols-1))
	fy := clamp(py-0.5, 0, float64(rows-1))
	c0, r0 := int(fx), int(fy)
	c1, r1 := min(c0+1, cols-1), min(r0+1, rows-1)
	tx, ty := fx-float64(c0), fy-float64(r0)

	taps := [4]struct {
		r, c int
		w    float64
	}{
		{r0, c0, (1 - tx) * (1 - ty)},
		{r0, c1, tx * (1 - ty)},
		{r1, c0, (1 - tx) * ty},
		{r1, c1, tx * ty},
	}
	sum := 0.0
	for _, tp := range taps {
		if tp.w == 0 {
			continue
		}
		v := src.At(tp.r, tp.c)
		if raster.IsNoData(v) {
			return math.NaN()
		}
		sum += tp.w * v
	}
	return sum
}

func sameShape(a, b *raster.Raster) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	return ar == br && ac == bc
}

func sameTransform(a, b raster.GeoTransform) bool {
	return floats.EqualApprox(a[:], b[:], transformTol)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

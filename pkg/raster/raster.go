package raster

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Raster is a single-band grid of samples with its spatial reference.
// NoData cells are held as NaN in Data; NoData records the on-disk sentinel.
type Raster struct {
	Data          *mat.Dense
	Transform     GeoTransform
	Georeferenced bool
	CRS           string // WKT or PROJ.4; empty when unknown
	NoData        float64
	HasNoData     bool
	Source        string
}

// New creates a raster of the given shape filled with NoData.
// It panics if rows or cols is not positive, as mat.NewDense does.
func New(rows, cols int, t GeoTransform, crs string) *Raster {
	vals := make([]float64, rows*cols)
	for i := range vals {
		vals[i] = math.NaN()
	}
	return &Raster{
		Data:          mat.NewDense(rows, cols, vals),
		Transform:     t,
		Georeferenced: true,
		CRS:           crs,
	}
}

// FromValues wraps row-major values in a raster. The slice is not copied.
func FromValues(rows, cols int, vals []float64, t GeoTransform, crs string) *Raster {
	return &Raster{
		Data:          mat.NewDense(rows, cols, vals),
		Transform:     t,
		Georeferenced: true,
		CRS:           crs,
	}
}

// Dims returns the number of rows and columns.
func (r *Raster) Dims() (rows, cols int) {
	return r.Data.Dims()
}

// At returns the sample at row i, column j.
func (r *Raster) At(i, j int) float64 {
	return r.Data.At(i, j)
}

// IsNoData reports whether the cell at row i, column j is NoData.
func (r *Raster) IsNoData(i, j int) bool {
	return IsNoData(r.Data.At(i, j))
}

// Values returns the row-major backing slice. Mutating it mutates the raster.
func (r *Raster) Values() []float64 {
	return r.Data.RawMatrix().Data
}

// CellArea returns the ground area of one pixel.
func (r *Raster) CellArea() float64 {
	return r.Transform.CellArea()
}

// ValidCount returns the number of cells that are not NoData.
func (r *Raster) ValidCount() int {
	n := 0
	for _, v := range r.Values() {
		if !IsNoData(v) {
			n++
		}
	}
	return n
}

// Like returns a NoData-filled raster sharing r's shape and spatial reference.
func (r *Raster) Like() *Raster {
	rows, cols := r.Dims()
	out := New(rows, cols, r.Transform, r.CRS)
	out.Georeferenced = r.Georeferenced
	out.NoData = r.NoData
	out.HasNoData = r.HasNoData
	return out
}

// IsNoData reports whether v marks a NoData cell.
func IsNoData(v float64) bool {
	return math.IsNaN(v)
}

// MaskSentinel replaces every occurrence of nodata in vals with NaN.
func MaskSentinel(vals []float64, nodata float64) {
	for i, v := range vals {
		if v == nodata {
			vals[i] = math.NaN()
		}
	}
}

// FillSentinel returns a float32 copy of vals with NaN replaced by nodata.
func FillSentinel(vals []float64, nodata float64) []float32 {
	out := make([]float32, len(vals))
	for i, v := range vals {
		if IsNoData(v) {
			out[i] = float32(nodata)
			continue
		}
		out[i] = float32(v)
	}
	return out
}

// WriteOptions controls how a raster is encoded on disk.
type WriteOptions struct {
	NoData   float64
	Compress string
}

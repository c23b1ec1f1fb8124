// Package accounting measures the ground area where composite suitability
// exceeds a threshold.
package accounting

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/habitat/pkg/raster"
	"gonum.org/v1/gonum/floats"
)

// DefaultThreshold is the cHSI above which habitat counts as usable.
const DefaultThreshold = 0.6

// InvalidThresholdError reports a threshold that is NaN or infinite.
type InvalidThresholdError struct {
	Value float64
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("threshold must be finite, got %v", e.Value)
}

// CheckThreshold returns an InvalidThresholdError when t is NaN or infinite.
func CheckThreshold(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return &InvalidThresholdError{Value: t}
	}
	return nil
}

// AreaSummary is the usable habitat result for one composite raster.
type AreaSummary struct {
	Threshold     float64 `json:"threshold"`
	MatchingCells int     `json:"matching_cell_count"`
	CellArea      float64 `json:"cell_area"`
	TotalArea     float64 `json:"total_area"`
	AreaUnit      string  `json:"area_unit,omitempty"`

	ValidCells int     `json:"valid_cells"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Mean       float64 `json:"mean"`
}

// Summarize counts valid cells with composite strictly greater than
// threshold and converts the count to area. The raster is not modified.
func Summarize(composite *raster.Raster, threshold, cellArea float64) (*AreaSummary, error) {
	if err := CheckThreshold(threshold); err != nil {
		return nil, err
	}

	valid := make([]float64, 0, len(composite.Values()))
	n := 0
	for _, v := range composite.Values() {
		if raster.IsNoData(v) {
			continue
		}
		valid = append(valid, v)
		if v > threshold {
			n++
		}
	}

	s := &AreaSummary{
		Threshold:     threshold,
		MatchingCells: n,
		CellArea:      cellArea,
		TotalArea:     float64(n) * cellArea,
		ValidCells:    len(valid),
	}
	if len(valid) > 0 {
		s.Min = floats.Min(valid)
		s.Max = floats.Max(valid)
		s.Mean = floats.Sum(valid) / float64(len(valid))
	}
	return s, nil
}

// SummarizeRaster is Summarize with the cell area taken from the raster's
// geotransform.
func SummarizeRaster(composite *raster.Raster, threshold float64) (*AreaSummary, error) {
	return Summarize(composite, threshold, composite.CellArea())
}

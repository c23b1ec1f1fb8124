package validation

import (
	"fmt"

	"github.com/ChicagoDave/habitat/pkg/align"
	"github.com/ChicagoDave/habitat/pkg/curve"
	"github.com/ChicagoDave/habitat/pkg/habitat"
)

// ValidateCurves reports how each curve behaves at and beyond its knots.
func ValidateCurves(s *curve.Store) *Report {
	r := NewReport()
	for _, c := range []*curve.Curve{s.Depth, s.Velocity} {
		validateCurve(c, s.Source, r)
	}
	return r
}

func validateCurve(c *curve.Curve, source string, r *Report) {
	lo, hi := c.Domain()
	_, maxSI := c.Range()
	r.AddInfo(Result{
		Level:   LevelCurve,
		Message: fmt.Sprintf("%s curve: %d points over [%g, %g]", c.Name(), c.Len(), lo, hi),
		Source:  source,
	})

	if maxSI < 1 {
		r.AddWarning(Result{
			Level:       LevelCurve,
			Message:     fmt.Sprintf("%s curve never reaches SI 1 (max %.2f)", c.Name(), maxSI),
			Source:      source,
			ActualValue: maxSI,
			Expected:    "1.0 at the optimum",
		})
	}

	pts := c.Points()
	n := len(pts)
	left := (pts[1].SI - pts[0].SI) / (pts[1].X - pts[0].X)
	right := (pts[n-1].SI - pts[n-2].SI) / (pts[n-1].X - pts[n-2].X)
	if left < 0 || right > 0 {
		r.AddWarning(Result{
			Level:   LevelCurve,
			Message: fmt.Sprintf("%s curve rises outside [%g, %g]; extrapolated SI can exceed 1", c.Name(), lo, hi),
			Source:  source,
			Suggestions: []string{
				"Add knots covering the observed value range",
				"End the curve with a flat segment",
			},
		})
	}
}

// AlignmentReport describes how the non-reference raster was placed on the grid.
func AlignmentReport(p *align.Pair) *Report {
	r := NewReport()
	rows, cols := p.Reference.Dims()
	if p.Resampled {
		r.AddInfo(Result{
			Level:   LevelAlignment,
			Message: fmt.Sprintf("bilinearly resampled onto the %dx%d reference grid", rows, cols),
			Source:  p.Other.Source,
		})
	} else {
		r.AddInfo(Result{
			Level:   LevelAlignment,
			Message: fmt.Sprintf("grids match (%dx%d); no resampling", rows, cols),
			Source:  p.Other.Source,
		})
	}
	return r
}

// CompositeReport turns composition counters into findings.
func CompositeReport(st habitat.Stats, policy habitat.NegativePolicy) *Report {
	r := NewReport()

	if st.Cells > 0 && st.NoDataCells == st.Cells {
		r.AddWarning(Result{
			Level:   LevelComposite,
			Message: "every cell is NoData in at least one input",
		})
	}
	if st.ExtrapolatedDepth > 0 || st.ExtrapolatedVelocity > 0 {
		r.AddInfo(Result{
			Level: LevelComposite,
			Message: fmt.Sprintf("%d depth and %d velocity cells fall outside their curve and were extrapolated",
				st.ExtrapolatedDepth, st.ExtrapolatedVelocity),
		})
	}
	if st.NegativeCells > 0 {
		r.AddWarning(Result{
			Level:       LevelComposite,
			Message:     fmt.Sprintf("%d cells had negative suitability after extrapolation; composite set to %s", st.NegativeCells, policy),
			ActualValue: st.NegativeCells,
		})
	}
	if st.CappedCells > 0 {
		r.AddWarning(Result{
			Level:       LevelComposite,
			Message:     fmt.Sprintf("%d cells had composite above 1 after extrapolation; capped at 1", st.CappedCells),
			ActualValue: st.CappedCells,
		})
	}
	return r
}

// Package habitat combines depth and velocity suitability into a composite
// habitat suitability index (cHSI).
package habitat

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/habitat/pkg/align"
	"github.com/ChicagoDave/habitat/pkg/curve"
	"github.com/ChicagoDave/habitat/pkg/raster"
)

// NegativePolicy decides the composite value for a cell whose depth or
// velocity suitability came out negative after extrapolation.
type NegativePolicy string

const (
	NegativeNoData NegativePolicy = "nodata"
	NegativeZero   NegativePolicy = "zero"
)

// Valid reports whether p is a known policy.
func (p NegativePolicy) Valid() bool {
	return p == NegativeNoData || p == NegativeZero
}

// Layers are the aligned physical inputs.
type Layers struct {
	Depth    *raster.Raster
	Velocity *raster.Raster
}

// LayersFromPair maps an aligned pair back to depth and velocity.
func LayersFromPair(p *align.Pair, depthIsReference bool) Layers {
	if depthIsReference {
		return Layers{Depth: p.Reference, Velocity: p.Other}
	}
	return Layers{Depth: p.Other, Velocity: p.Reference}
}

// Stats counts the notable cells seen while composing.
type Stats struct {
	Cells                int `json:"cells"`
	ValidCells           int `json:"valid_cells"`
	NoDataCells          int `json:"nodata_cells"`
	NegativeCells        int `json:"negative_cells"`
	CappedCells          int `json:"capped_cells"`
	ExtrapolatedDepth    int `json:"extrapolated_depth"`
	ExtrapolatedVelocity int `json:"extrapolated_velocity"`
}

// Result holds the three suitability rasters, all on the reference grid the
// layers were aligned to.
type Result struct {
	Depth     *raster.Raster
	Velocity  *raster.Raster
	Composite *raster.Raster
	Stats     Stats
}

// Compute evaluates each layer against its curve and combines the two as
// cHSI = sqrt(SI_depth * SI_velocity). A NoData cell in either layer is
// NoData in all three outputs. Composites above 1 are capped at 1: when a
// cell's SI product exceeds 1 through extrapolation, the [0,1] range wins
// over the geometric-mean identity and the cell is counted in CappedCells.
func Compute(in Layers, depthCurve, velocityCurve *curve.Curve, policy NegativePolicy) (*Result, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("unknown negative policy %q", policy)
	}
	dr, dc := in.Depth.Dims()
	vr, vc := in.Velocity.Dims()
	if dr != vr || dc != vc {
		return nil, &align.ShapeMismatchError{
			Reference: in.Depth.Source, Other: in.Velocity.Source,
			RefRows: dr, RefCols: dc, OtherRows: vr, OtherCols: vc,
		}
	}

	res := &Result{
		Depth:     in.Depth.Like(),
		Velocity:  in.Depth.Like(),
		Composite: in.Depth.Like(),
	}
	depth, velocity := in.Depth.Values(), in.Velocity.Values()
	siD, siV, chsi := res.Depth.Values(), res.Velocity.Values(), res.Composite.Values()

	depthCurve.EvaluateInto(siD, depth)
	velocityCurve.EvaluateInto(siV, velocity)

	st := &res.Stats
	st.Cells = len(chsi)
	for k := range chsi {
		if raster.IsNoData(depth[k]) || raster.IsNoData(velocity[k]) {
			siD[k], siV[k], chsi[k] = math.NaN(), math.NaN(), math.NaN()
			st.NoDataCells++
			continue
		}
		if depthCurve.Extrapolates(depth[k]) {
			st.ExtrapolatedDepth++
		}
		if velocityCurve.Extrapolates(velocity[k]) {
			st.ExtrapolatedVelocity++
		}

		v, outcome := Composite(siD[k], siV[k], policy)
		switch outcome {
		case OutcomeNegative:
			st.NegativeCells++
		case OutcomeCapped:
			st.CappedCells++
		}
		chsi[k] = v
		if !raster.IsNoData(v) {
			st.ValidCells++
		}
	}
	return res, nil
}

// Outcome classifies how a composite value was produced.
type Outcome int

const (
	OutcomeNormal Outcome = iota
	OutcomeNegative
	OutcomeCapped
)

// Composite returns the geometric mean of two suitability values. If either
// is negative the result follows policy instead; results above 1 are capped.
func Composite(siDepth, siVelocity float64, policy NegativePolicy) (float64, Outcome) {
	if siDepth < 0 || siVelocity < 0 {
		if policy == NegativeZero {
			return 0, OutcomeNegative
		}
		return math.NaN(), OutcomeNegative
	}
	v := math.Sqrt(siDepth * siVelocity)
	if v > 1 {
		return 1, OutcomeCapped
	}
	return v, OutcomeNormal
}

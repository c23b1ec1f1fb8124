// Package curve holds habitat suitability curves and evaluates them.
package curve

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Point is one knot of a suitability curve.
type Point struct {
	X  float64 `json:"x"`
	SI float64 `json:"si"`
}

// Curve is an immutable piecewise-linear suitability curve with strictly
// increasing abscissae.
type Curve struct {
	name string
	xs   []float64
	ys   []float64
}

// New builds a curve from points in any order. The input slice is not retained.
func New(name string, pts []Point) (*Curve, error) {
	if len(pts) < 2 {
		return nil, &InsufficientPointsError{Curve: name, Got: len(pts)}
	}

	sorted := make([]Point, len(pts))
	copy(sorted, pts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	c := &Curve{
		name: name,
		xs:   make([]float64, len(sorted)),
		ys:   make([]float64, len(sorted)),
	}
	for i, p := range sorted {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.SI) || math.IsInf(p.SI, 0) {
			return nil, &MalformedCurveError{Curve: name, Reason: "non-finite value"}
		}
		if p.SI < 0 || p.SI > 1 {
			return nil, &MalformedCurveError{
				Curve:  name,
				Value:  formatFloat(p.SI),
				Reason: "suitability index outside [0,1]",
			}
		}
		if i > 0 && p.X == sorted[i-1].X {
			return nil, &DuplicateAbscissaError{Curve: name, X: p.X}
		}
		c.xs[i] = p.X
		c.ys[i] = p.SI
	}
	return c, nil
}

// Name returns the curve's label (e.g. "depth").
func (c *Curve) Name() string { return c.name }

// Len returns the number of knots.
func (c *Curve) Len() int { return len(c.xs) }

// Points returns a copy of the knots in ascending x order.
func (c *Curve) Points() []Point {
	pts := make([]Point, len(c.xs))
	for i := range c.xs {
		pts[i] = Point{X: c.xs[i], SI: c.ys[i]}
	}
	return pts
}

// Domain returns the smallest and largest knot abscissa.
func (c *Curve) Domain() (lo, hi float64) {
	return c.xs[0], c.xs[len(c.xs)-1]
}

// Range returns the smallest and largest knot SI value.
func (c *Curve) Range() (lo, hi float64) {
	return floats.Min(c.ys), floats.Max(c.ys)
}

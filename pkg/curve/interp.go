package curve

import (
	"math"
	"sort"
)

// Evaluate returns the suitability at x. Between knots the value is the
// linear blend of the bracketing knots; outside the domain the first or last
// segment is extended linearly (no clamping). NaN passes through.
func (c *Curve) Evaluate(x float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	n := len(c.xs)

	switch {
	case x < c.xs[0]:
		return c.ys[0] + c.slope(0)*(x-c.xs[0])
	case x > c.xs[n-1]:
		return c.ys[n-1] + c.slope(n-2)*(x-c.xs[n-1])
	}

	k := sort.SearchFloat64s(c.xs, x)
	if c.xs[k] == x {
		return c.ys[k]
	}
	x0, x1 := c.xs[k-1], c.xs[k]
	y0, y1 := c.ys[k-1], c.ys[k]
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// slope of the segment starting at knot i.
func (c *Curve) slope(i int) float64 {
	return (c.ys[i+1] - c.ys[i]) / (c.xs[i+1] - c.xs[i])
}

// Extrapolates reports whether x falls outside the curve's domain.
func (c *Curve) Extrapolates(x float64) bool {
	return x < c.xs[0] || x > c.xs[len(c.xs)-1]
}

// EvaluateInto writes the suitability of each query into dst, which must be
// at least as long as queries. dst may alias queries.
func (c *Curve) EvaluateInto(dst, queries []float64) {
	for i, q := range queries {
		dst[i] = c.Evaluate(q)
	}
}

// Evaluate applies c to every query value and returns a new slice.
func Evaluate(c *Curve, queries []float64) []float64 {
	out := make([]float64, len(queries))
	c.EvaluateInto(out, queries)
	return out
}

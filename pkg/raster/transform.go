package raster

import "math"

// GeoTransform is an affine pixel-to-ground transform in GDAL order:
//
//	x = T[0] + col*T[1] + row*T[2]
//	y = T[3] + col*T[4] + row*T[5]
type GeoTransform [6]float64

// Identity returns the transform GDAL assumes for ungeoreferenced data.
func Identity() GeoTransform {
	return GeoTransform{0, 1, 0, 0, 0, 1}
}

// Apply maps fractional pixel coordinates to ground coordinates.
func (t GeoTransform) Apply(col, row float64) (x, y float64) {
	return t[0] + col*t[1] + row*t[2], t[3] + col*t[4] + row*t[5]
}

// Invert returns the ground-to-pixel transform.
// Returns false if the transform is singular.
func (t GeoTransform) Invert() (GeoTransform, bool) {
	det := t[1]*t[5] - t[2]*t[4]
	if math.Abs(det) < 1e-15 {
		return GeoTransform{}, false
	}
	inv := 1 / det
	a, b := t[5]*inv, -t[2]*inv
	d, e := -t[4]*inv, t[1]*inv
	return GeoTransform{
		-t[0]*a - t[3]*b, a, b,
		-t[0]*d - t[3]*e, d, e,
	}, true
}

// PixelSize returns the ground length of one pixel step along each axis.
func (t GeoTransform) PixelSize() (width, height float64) {
	return math.Hypot(t[1], t[4]), math.Hypot(t[2], t[5])
}

// CellArea returns the ground area covered by one pixel. Rotated and
// non-square pixels are handled by taking the transform's determinant.
func (t GeoTransform) CellArea() float64 {
	return math.Abs(t[1]*t[5] - t[2]*t[4])
}

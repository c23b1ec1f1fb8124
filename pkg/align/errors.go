package align

import "fmt"

// IncompatibleCRSError reports two rasters whose spatial references cannot
// be reconciled.
type IncompatibleCRSError struct {
	Reference string // source of the reference raster
	Other     string // source of the raster being aligned
	Reason    string
}

func (e *IncompatibleCRSError) Error() string {
	return fmt.Sprintf("incompatible spatial reference between %s and %s: %s",
		label(e.Reference), label(e.Other), e.Reason)
}

// ShapeMismatchError reports rasters of different shape that carry no
// georeferencing to resample by.
type ShapeMismatchError struct {
	Reference string
	Other     string
	RefRows   int
	RefCols   int
	OtherRows int
	OtherCols int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s is %dx%d, %s is %dx%d",
		label(e.Reference), e.RefRows, e.RefCols, label(e.Other), e.OtherRows, e.OtherCols)
}

func label(src string) string {
	if src == "" {
		return "<memory>"
	}
	return src
}

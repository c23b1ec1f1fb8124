package curve

import (
	"fmt"
	"strconv"
)

// MalformedCurveError reports a missing, non-numeric or out-of-range cell in
// curve input. Row and Column are 1-based; zero means unknown.
type MalformedCurveError struct {
	Source string
	Curve  string
	Row    int
	Column int
	Value  string
	Reason string
}

func (e *MalformedCurveError) Error() string {
	msg := "malformed curve"
	if e.Curve != "" {
		msg += " " + e.Curve
	}
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(" at row %d", e.Row)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	msg += ": " + e.Reason
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	return msg
}

// DuplicateAbscissaError reports two knots sharing an x value in one curve.
type DuplicateAbscissaError struct {
	Source string
	Curve  string
	X      float64
}

func (e *DuplicateAbscissaError) Error() string {
	return fmt.Sprintf("curve %s%s: duplicate x value %s", e.Curve, sourceSuffix(e.Source), formatFloat(e.X))
}

// InsufficientPointsError reports a curve with fewer than two knots.
type InsufficientPointsError struct {
	Source string
	Curve  string
	Got    int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("curve %s%s: need at least 2 points, got %d", e.Curve, sourceSuffix(e.Source), e.Got)
}

func sourceSuffix(src string) string {
	if src == "" {
		return ""
	}
	return " in " + src
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

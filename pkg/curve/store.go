package curve

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Store holds the depth and velocity curves read from one table.
type Store struct {
	Depth    *Curve
	Velocity *Curve
	Source   string
}

// Load reads a four-column suitability table (depth, SI_depth, velocity,
// SI_velocity) from a CSV file.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening curve file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a suitability table from r. A first row without any numeric
// cell is treated as a header. A row may leave one whole (x, SI) pair blank
// so the two curves can have different lengths; a half-filled pair is
// malformed.
func Parse(r io.Reader, source string) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var depth, velocity []Point
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing curve CSV %s: %w", source, err)
		}
		line, _ := cr.FieldPos(0)

		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}
		if len(rec) != 4 {
			return nil, &MalformedCurveError{
				Source: source,
				Row:    line,
				Reason: fmt.Sprintf("expected 4 columns, got %d", len(rec)),
			}
		}

		p, ok, err := parsePair(rec, 0, line, source, "depth")
		if err != nil {
			return nil, err
		}
		if ok {
			depth = append(depth, p)
		}
		p, ok, err = parsePair(rec, 2, line, source, "velocity")
		if err != nil {
			return nil, err
		}
		if ok {
			velocity = append(velocity, p)
		}
	}

	d, err := New("depth", depth)
	if err != nil {
		return nil, withSource(err, source)
	}
	v, err := New("velocity", velocity)
	if err != nil {
		return nil, withSource(err, source)
	}
	return &Store{Depth: d, Velocity: v, Source: source}, nil
}

// parsePair reads the (x, SI) pair starting at column col. ok is false when
// both cells are blank.
func parsePair(rec []string, col, line int, source, name string) (Point, bool, error) {
	xs, ss := strings.TrimSpace(rec[col]), strings.TrimSpace(rec[col+1])
	if xs == "" && ss == "" {
		return Point{}, false, nil
	}

	var vals [2]float64
	for k, cell := range []string{xs, ss} {
		if cell == "" {
			return Point{}, false, &MalformedCurveError{
				Source: source, Curve: name, Row: line, Column: col + k + 1,
				Reason: "missing value",
			}
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Point{}, false, &MalformedCurveError{
				Source: source, Curve: name, Row: line, Column: col + k + 1,
				Value: cell, Reason: "not a number",
			}
		}
		vals[k] = v
	}
	if vals[1] < 0 || vals[1] > 1 {
		return Point{}, false, &MalformedCurveError{
			Source: source, Curve: name, Row: line, Column: col + 2,
			Value: ss, Reason: "suitability index outside [0,1]",
		}
	}
	return Point{X: vals[0], SI: vals[1]}, true, nil
}

func isHeader(rec []string) bool {
	for _, cell := range rec {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			return false
		}
	}
	return true
}

func withSource(err error, source string) error {
	var me *MalformedCurveError
	var de *DuplicateAbscissaError
	var ie *InsufficientPointsError
	switch {
	case errors.As(err, &me):
		me.Source = source
	case errors.As(err, &de):
		de.Source = source
	case errors.As(err, &ie):
		ie.Source = source
	}
	return err
}

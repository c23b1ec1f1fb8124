package main

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ChicagoDave/habitat/pkg/curve"
	"github.com/ChicagoDave/habitat/pkg/pipeline"
	"github.com/ChicagoDave/habitat/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(e)
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResult(w)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Level, res.Message)
	if res.Source != "" {
		if res.ActualValue != nil {
			fmt.Printf("    -> %s = %v\n", res.Source, res.ActualValue)
		} else {
			fmt.Printf("    -> %s\n", res.Source)
		}
	}
	if res.Expected != "" {
		fmt.Printf("    expected: %s\n", res.Expected)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("    * %s\n", s)
	}
}

func printSummary(out *pipeline.Outcome) {
	s := out.Summary
	for _, p := range out.Outputs {
		fmt.Printf("Wrote %s\n", p)
	}
	if len(out.Outputs) > 0 {
		fmt.Println()
	}

	fmt.Printf("Usable pixels (cHSI > %.2f): %d\n", s.Threshold, s.MatchingCells)
	unit := s.AreaUnit
	if unit == "" {
		unit = "units²"
	}
	fmt.Printf("Total usable habitat area          : %s %s\n", formatArea(s.TotalArea), unit)
	fmt.Println()
	fmt.Printf("  Valid cells:   %d of %d\n", s.ValidCells, out.Stats.Cells)
	fmt.Printf("  Cell area:     %s %s\n", formatArea(s.CellArea), unit)
	if s.ValidCells > 0 {
		fmt.Printf("  cHSI min/mean/max: %.3f / %.3f / %.3f\n", s.Min, s.Mean, s.Max)
	}
}

func printCurve(c *curve.Curve) {
	lo, hi := c.Domain()
	fmt.Printf("%s curve (%d points, x in [%g, %g])\n", c.Name(), c.Len(), lo, hi)
	fmt.Printf("  %12s %8s\n", "x", "SI")
	for _, p := range c.Points() {
		fmt.Printf("  %12g %8.3f\n", p.X, p.SI)
	}
}

func printEvaluations(s *curve.Store, queries []float64) {
	fmt.Printf("%12s %10s %10s\n", "value", "SI-depth", "SI-vel")
	d := curve.Evaluate(s.Depth, queries)
	v := curve.Evaluate(s.Velocity, queries)
	for i, q := range queries {
		fmt.Printf("%12g %10.4f %10.4f\n", q, d[i], v[i])
	}
}

var areaPrinter = message.NewPrinter(language.English)

// formatArea renders an area with thousands separators and two decimals.
func formatArea(v float64) string {
	return areaPrinter.Sprintf("%.2f", v)
}

package validation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/habitat/pkg/config"
	"github.com/ChicagoDave/habitat/pkg/habitat"
)

// ValidateConfig checks a run configuration before any file is touched.
func ValidateConfig(c *config.Config) *Report {
	r := NewReport()

	validateInputs(c, r)
	validateThreshold(c, r)
	validatePolicies(c, r)
	validateOutputs(c, r)

	return r
}

func validateInputs(c *config.Config, r *Report) {
	required := []struct {
		name, value string
	}{
		{"depth_raster", c.DepthRaster},
		{"velocity_raster", c.VelocityRaster},
		{"curve_file", c.CurveFile},
	}
	for _, f := range required {
		if f.value == "" {
			r.AddError(Result{
				Level:    LevelConfig,
				Message:  fmt.Sprintf("%s is required", f.name),
				Source:   f.name,
				Expected: "a file path",
			})
		}
	}
}

func validateThreshold(c *config.Config, r *Report) {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "threshold must be finite",
			Source:      "threshold",
			ActualValue: fmt.Sprint(c.Threshold),
			Expected:    "finite number",
		})
		return
	}
	if c.Threshold < 0 || c.Threshold >= 1 {
		r.AddWarning(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("threshold %.2f is outside the suitability range; every or no valid cell will match", c.Threshold),
			Source:      "threshold",
			ActualValue: c.Threshold,
			Expected:    "0 <= threshold < 1",
		})
	}
}

func validatePolicies(c *config.Config, r *Report) {
	if c.Reference != config.ReferenceDepth && c.Reference != config.ReferenceVelocity {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("unknown reference raster %q", c.Reference),
			Source:      "reference",
			ActualValue: string(c.Reference),
			Expected:    "depth or velocity",
		})
	}
	if !habitat.NegativePolicy(c.NegativePolicy).Valid() {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("unknown negative policy %q", c.NegativePolicy),
			Source:      "negative_policy",
			ActualValue: c.NegativePolicy,
			Expected:    "nodata or zero",
		})
	}
}

func validateOutputs(c *config.Config, r *Report) {
	if c.OutputDir == "" {
		r.AddError(Result{
			Level:   LevelConfig,
			Message: "output_dir is required",
			Source:  "output_dir",
		})
	}

	names := map[string]string{}
	for field, name := range map[string]string{
		"outputs.depth":     c.Outputs.Depth,
		"outputs.velocity":  c.Outputs.Velocity,
		"outputs.composite": c.Outputs.Composite,
	} {
		if name == "" {
			r.AddError(Result{
				Level:   LevelConfig,
				Message: fmt.Sprintf("%s must not be empty", field),
				Source:  field,
			})
			continue
		}
		if prev, ok := names[name]; ok {
			r.AddError(Result{
				Level:       LevelConfig,
				Message:     fmt.Sprintf("%s and %s both write %s", prev, field, name),
				Source:      field,
				ActualValue: name,
				Suggestions: []string{"Give each output raster a distinct file name"},
			})
			continue
		}
		names[name] = field
	}

	if math.IsNaN(c.OutputNoData) {
		r.AddError(Result{
			Level:    LevelConfig,
			Message:  "output_nodata must be a number",
			Source:   "output_nodata",
			Expected: "finite sentinel such as -9999",
		})
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ChicagoDave/habitat/pkg/config"
	"github.com/ChicagoDave/habitat/pkg/curve"
	"github.com/ChicagoDave/habitat/pkg/geotiff"
	"github.com/ChicagoDave/habitat/pkg/pipeline"
)

// buildConfig layers the config file (if any), then explicitly set flags,
// then positional raster paths.
func buildConfig(cmd *cobra.Command, f *runFlags, args []string) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if st, serr := os.Stat(f.configPath); serr == nil && st.IsDir() {
			cfg, err = config.LoadProject(f.configPath)
		} else {
			cfg, err = config.Load(f.configPath)
		}
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("csv") || f.configPath == "" {
		cfg.CurveFile = f.curveFile
	}
	if flags.Changed("threshold") || f.configPath == "" {
		cfg.Threshold = f.threshold
	}
	if flags.Changed("out-dir") || f.configPath == "" {
		cfg.OutputDir = f.outputDir
	}
	if flags.Changed("reference") {
		cfg.Reference = config.Reference(f.reference)
	}
	if flags.Changed("negative-policy") {
		cfg.NegativePolicy = f.negativePolicy
	}

	if len(args) > 0 {
		cfg.DepthRaster = args[0]
	}
	if len(args) > 1 {
		cfg.VelocityRaster = args[1]
	}
	return cfg, nil
}

func runPipeline(cfg *config.Config, asJSON bool) error {
	logger := newLogger()
	defer logger.Sync()

	io := geotiff.IO{}
	out, err := pipeline.New(io, io, logger).Run(cfg)
	if err != nil {
		if out != nil && out.Report != nil && !out.Report.Valid {
			printValidationReport(out.Report)
		}
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(out.Report.Warnings) > 0 {
		printValidationReport(out.Report)
	}
	printSummary(out)
	return nil
}

func runValidate(cfg *config.Config, asJSON bool) error {
	logger := newLogger()
	defer logger.Sync()

	io := geotiff.IO{}
	out, err := pipeline.New(io, io, logger).Evaluate(cfg)
	if out != nil && out.Report != nil {
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if jerr := enc.Encode(out.Report); jerr != nil {
				return jerr
			}
		} else {
			printValidationReport(out.Report)
		}
	}
	return err
}

func runCurve(path string, values []string) error {
	store, err := curve.Load(path)
	if err != nil {
		return err
	}
	printCurve(store.Depth)
	fmt.Println()
	printCurve(store.Velocity)

	if len(values) == 0 {
		return nil
	}
	queries := make([]float64, len(values))
	for i, v := range values {
		q, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing query value %q: %w", v, err)
		}
		queries[i] = q
	}
	fmt.Println()
	printEvaluations(store, queries)
	return nil
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChicagoDave/habitat/internal/server"
	"github.com/ChicagoDave/habitat/pkg/config"
	"github.com/ChicagoDave/habitat/pkg/geotiff"
	"github.com/ChicagoDave/habitat/pkg/pipeline"
)

// flags shared by the commands that run the pipeline.
type runFlags struct {
	configPath     string
	curveFile      string
	threshold      float64
	outputDir      string
	reference      string
	negativePolicy string
	jsonOutput     bool
}

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:          "habitat",
		Short:        "Habitat suitability and usable-area calculator for depth/velocity rasters",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(curveCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [depth-raster] [velocity-raster]",
		Short: "Write SI-depth, SI-velocity and cHSI rasters and report usable habitat area",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, f, args)
			if err != nil {
				return err
			}
			return runPipeline(cfg, f.jsonOutput)
		},
	}
	addRunFlags(cmd, f)
	return cmd
}

func validateCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "validate [depth-raster] [velocity-raster]",
		Short: "Check inputs and report findings without writing rasters",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, f, args)
			if err != nil {
				return err
			}
			return runValidate(cfg, f.jsonOutput)
		},
	}
	addRunFlags(cmd, f)
	return cmd
}

func curveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curve [csv] [value...]",
		Short: "Print the suitability curves and evaluate them at the given values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCurve(args[0], args[1:])
		},
	}
}

func serveCmd() *cobra.Command {
	f := &runFlags{}
	var port int

	cmd := &cobra.Command{
		Use:   "serve [depth-raster] [velocity-raster]",
		Short: "Start a local HTTP server exposing curves and pipeline runs",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, f, args)
			if err != nil {
				return err
			}
			logger := newLogger()
			defer logger.Sync()
			io := geotiff.IO{}
			srv := server.New(cfg, pipeline.New(io, io, logger), logger, port)
			return srv.Start()
		},
	}

	addRunFlags(cmd, f)
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	d := config.Default()
	cmd.Flags().StringVar(&f.configPath, "config", "", "habitat.yaml file or project directory")
	cmd.Flags().StringVarP(&f.curveFile, "csv", "c", d.CurveFile, "CSV with suitability curves")
	cmd.Flags().Float64VarP(&f.threshold, "threshold", "t", d.Threshold, "cHSI threshold for usable habitat")
	cmd.Flags().StringVarP(&f.outputDir, "out-dir", "o", d.OutputDir, "output directory")
	cmd.Flags().StringVar(&f.reference, "reference", string(d.Reference), "raster whose grid is used: depth or velocity")
	cmd.Flags().StringVar(&f.negativePolicy, "negative-policy", d.NegativePolicy, "composite for negative SI: nodata or zero")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "print results as JSON")
}

func newLogger() *zap.SugaredLogger {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

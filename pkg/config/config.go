// Package config holds the explicit settings for one habitat calculation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the config file name looked up by LoadProject.
const ProjectFile = "habitat.yaml"

// Reference names the raster whose grid drives alignment.
type Reference string

const (
	ReferenceDepth    Reference = "depth"
	ReferenceVelocity Reference = "velocity"
)

// Config is the complete input to a pipeline run.
type Config struct {
	DepthRaster    string  `yaml:"depth_raster" json:"depth_raster"`
	VelocityRaster string  `yaml:"velocity_raster" json:"velocity_raster"`
	CurveFile      string  `yaml:"curve_file" json:"curve_file"`
	Threshold      float64 `yaml:"threshold" json:"threshold"`
	OutputDir      string  `yaml:"output_dir" json:"output_dir"`

	Reference      Reference `yaml:"reference" json:"reference"`
	NegativePolicy string    `yaml:"negative_policy" json:"negative_policy"`
	OutputNoData   float64   `yaml:"output_nodata" json:"output_nodata"`
	Compress       string    `yaml:"compress" json:"compress"`
	Outputs        Outputs   `yaml:"outputs" json:"outputs"`
}

// Outputs are the file names written inside OutputDir.
type Outputs struct {
	Depth     string `yaml:"depth" json:"depth"`
	Velocity  string `yaml:"velocity" json:"velocity"`
	Composite string `yaml:"composite" json:"composite"`
}

// Default returns a config with every optional field set.
func Default() *Config {
	return &Config{
		CurveFile:      "habitat-suitability-grayling-spawn.csv",
		Threshold:      0.6,
		OutputDir:      "habitat-calculation",
		Reference:      ReferenceDepth,
		NegativePolicy: "nodata",
		OutputNoData:   -9999,
		Compress:       "LZW",
		Outputs: Outputs{
			Depth:     "SI_depth.tif",
			Velocity:  "SI_velocity.tif",
			Composite: "cHSI.tif",
		},
	}
}

// Load reads a config from a YAML file. Fields absent from the file keep
// their defaults; relative paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// LoadProject loads the config from a project directory.
// It looks for habitat.yaml in the given directory.
func LoadProject(projectDir string) (*Config, error) {
	return Load(filepath.Join(projectDir, ProjectFile))
}

// DepthIsReference reports whether the depth raster drives the grid.
func (c *Config) DepthIsReference() bool {
	return c.Reference != ReferenceVelocity
}

// OutputPaths returns the depth, velocity and composite output paths.
func (c *Config) OutputPaths() [3]string {
	return [3]string{
		filepath.Join(c.OutputDir, c.Outputs.Depth),
		filepath.Join(c.OutputDir, c.Outputs.Velocity),
		filepath.Join(c.OutputDir, c.Outputs.Composite),
	}
}

func (c *Config) resolve(base string) {
	for _, p := range []*string{&c.DepthRaster, &c.VelocityRaster, &c.CurveFile, &c.OutputDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

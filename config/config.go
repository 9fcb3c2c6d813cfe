// Package config provides unified configuration for the flightlog commands.
// Values come from an optional YAML file, overridden by environment
// variables; credentials are never passed on the command line.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// GeoNamesConfig configures the timezone lookup collaborator
type GeoNamesConfig struct {
	// Username is the GeoNames account name. Sign up at
	// http://www.geonames.org/login
	Username string `yaml:"username"`

	// TimeoutSeconds bounds each lookup request
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MaxRetries bounds retries of transient lookup failures
	MaxRetries int `yaml:"max_retries"`
}

// ValidationConfig configures consistency tolerances
type ValidationConfig struct {
	// DistancePct is the allowed deviation between stored and recomputed
	// distance, as a fraction
	DistancePct float64 `yaml:"distance_pct"`

	// DurationMinutes is the allowed deviation between stored and
	// recomputed duration
	DurationMinutes int `yaml:"duration_minutes"`
}

// Config holds the configuration for all flightlog commands
type Config struct {
	// DataDir is the directory holding reference tables
	DataDir string `yaml:"data_dir"`

	// FlightsFile is the canonical dataset path
	FlightsFile string `yaml:"flights_file"`

	// CoordPrecision is the number of decimal places coordinates are
	// rounded to for timezone caching
	CoordPrecision int `yaml:"coord_precision"`

	// LogLevel is one of TRACE, DEBUG, INFO, WARN, ERROR, FATAL
	LogLevel string `yaml:"log_level"`

	GeoNames   GeoNamesConfig   `yaml:"geonames"`
	Validation ValidationConfig `yaml:"validation"`
}

// Default returns the configuration used when no file and no environment
// overrides are present
func Default() *Config {
	return &Config{
		DataDir:        "data",
		FlightsFile:    filepath.Join("data", "flights.csv"),
		CoordPrecision: 4,
		LogLevel:       "INFO",
		GeoNames: GeoNamesConfig{
			TimeoutSeconds: 3,
			MaxRetries:     3,
		},
		Validation: ValidationConfig{
			DistancePct:     0.10,
			DurationMinutes: 15,
		},
	}
}

// Load reads configuration from an optional YAML file, then applies
// environment overrides. An empty path loads defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// GeoNamesTimeout returns the configured lookup timeout as a Duration
func (c *Config) GeoNamesTimeout() time.Duration {
	return time.Duration(c.GeoNames.TimeoutSeconds) * time.Second
}

// DurationTolerance returns the configured duration tolerance as a Duration
func (c *Config) DurationTolerance() time.Duration {
	return time.Duration(c.Validation.DurationMinutes) * time.Minute
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FLIGHTLOG_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("FLIGHTLOG_FLIGHTS_FILE"); v != "" {
		c.FlightsFile = v
	}
	if v := os.Getenv("FLIGHTLOG_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FLIGHTLOG_GEONAMES_USERNAME"); v != "" {
		c.GeoNames.Username = v
	}
	if v := os.Getenv("FLIGHTLOG_GEONAMES_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.GeoNames.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("FLIGHTLOG_COORD_PRECISION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CoordPrecision = n
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, filepath.Join("data", "flights.csv"), cfg.FlightsFile)
	require.Equal(t, 4, cfg.CoordPrecision)
	require.Equal(t, "INFO", cfg.LogLevel)
	require.Equal(t, "", cfg.GeoNames.Username)
	require.Equal(t, 3*time.Second, cfg.GeoNamesTimeout())
	require.Equal(t, 15*time.Minute, cfg.DurationTolerance())
	require.Equal(t, 0.10, cfg.Validation.DistancePct)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte(`
data_dir: /var/flightlog
log_level: DEBUG
geonames:
  username: demo
  timeout_seconds: 10
validation:
  distance_pct: 0.05
  duration_minutes: 30
`), 0o644))

	cfg, err := Load(path)
	require.Nil(t, err)
	require.Equal(t, "/var/flightlog", cfg.DataDir)
	require.Equal(t, "DEBUG", cfg.LogLevel)
	require.Equal(t, "demo", cfg.GeoNames.Username)
	require.Equal(t, 10*time.Second, cfg.GeoNamesTimeout())
	require.Equal(t, 0.05, cfg.Validation.DistancePct)
	require.Equal(t, 30*time.Minute, cfg.DurationTolerance())
	// values the file does not mention keep their defaults
	require.Equal(t, filepath.Join("data", "flights.csv"), cfg.FlightsFile)
	require.Equal(t, 3, cfg.GeoNames.MaxRetries)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NotNil(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.Nil(t, err)
	require.Equal(t, Default().DataDir, cfg.DataDir)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FLIGHTLOG_DATA_DIR", "/srv/refdata")
	t.Setenv("FLIGHTLOG_GEONAMES_USERNAME", "envuser")
	t.Setenv("FLIGHTLOG_GEONAMES_TIMEOUT", "7")
	t.Setenv("FLIGHTLOG_COORD_PRECISION", "2")

	cfg, err := Load("")
	require.Nil(t, err)
	require.Equal(t, "/srv/refdata", cfg.DataDir)
	require.Equal(t, "envuser", cfg.GeoNames.Username)
	require.Equal(t, 7*time.Second, cfg.GeoNamesTimeout())
	require.Equal(t, 2, cfg.CoordPrecision)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte("log_level: DEBUG\n"), 0o644))
	t.Setenv("FLIGHTLOG_LOG_LEVEL", "ERROR")

	cfg, err := Load(path)
	require.Nil(t, err)
	require.Equal(t, "ERROR", cfg.LogLevel)
}

func TestEnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("FLIGHTLOG_GEONAMES_TIMEOUT", "soon")
	cfg, err := Load("")
	require.Nil(t, err)
	require.Equal(t, 3*time.Second, cfg.GeoNamesTimeout())
}

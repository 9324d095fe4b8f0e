package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithFile_Defaults(t *testing.T) {
	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, 2024, cfg.Pipeline.ReferenceYear)
	assert.Equal(t, 3, cfg.Forecast.Horizon)
	assert.False(t, cfg.Forecast.Enabled)
}

func TestLoadWithFile_EnvOverride(t *testing.T) {
	t.Setenv("BMW_PATHS_DATA_DIR", "testdata")
	t.Setenv("BMW_FORECAST_HORIZON", "5")

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, "testdata", cfg.Paths.DataDir)
	assert.Equal(t, 5, cfg.Forecast.Horizon)
}

func TestLoadWithFile_InvalidHorizon(t *testing.T) {
	t.Setenv("BMW_FORECAST_HORIZON", "99")

	_, err := LoadWithFile("")
	assert.Error(t, err)
}

func TestLoadWithFile_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := []byte("forecast:\n  enabled: true\n")
	require.NoError(t, os.WriteFile(configFile, content, 0644))

	cfg, err := LoadWithFile(configFile)
	require.NoError(t, err)
	assert.True(t, cfg.Forecast.Enabled)
}

func TestNewPaths(t *testing.T) {
	paths := NewPaths(PathsConfig{DataDir: "data", RawFile: "raw/sales.csv", LogsDir: "logs"})

	assert.Equal(t, filepath.Join("data", "raw", "sales.csv"), paths.RawFile)
	assert.Equal(t, filepath.Join("data", "processed", "bmw_sales_cleaned.csv"), paths.CleanedCSV)
	assert.Equal(t, filepath.Join("data", "charts"), paths.ChartsDir)
	assert.Equal(t, filepath.Join("data", "reports", "volume_forecast.csv"), paths.ForecastCSV)
}

func TestNewPaths_EmptyConfigUsesDefaults(t *testing.T) {
	paths := NewPaths(PathsConfig{})

	assert.Equal(t, "data", paths.DataDir)
	assert.Equal(t, "logs", paths.LogsDir)
}

func TestPaths_EnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := NewPaths(PathsConfig{
		DataDir: filepath.Join(dir, "data"),
		RawFile: "raw/sales.csv",
		LogsDir: filepath.Join(dir, "logs"),
	})

	require.NoError(t, paths.EnsureDirectories())

	for _, d := range []string{paths.RawDir, paths.ProcessedDir, paths.ReportsDir, paths.ChartsDir, paths.LogsDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestPaths_ValidateRawFile(t *testing.T) {
	dir := t.TempDir()
	paths := NewPaths(PathsConfig{DataDir: dir, RawFile: "raw/sales.csv"})

	err := paths.ValidateRawFile()
	assert.ErrorContains(t, err, "not found")

	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, os.WriteFile(paths.RawFile, []byte("Model,Year\n"), 0644))
	assert.NoError(t, paths.ValidateRawFile())
}

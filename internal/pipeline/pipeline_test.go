package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmwsales/internal/config"
)

func testConfig(t *testing.T) (*config.Config, *config.Paths) {
	t.Helper()
	cfg := &config.Config{
		Logging: config.LoggingConfig{Level: "info", Format: "json", Output: "console"},
		Paths: config.PathsConfig{
			DataDir: t.TempDir(),
			RawFile: "raw/bmw_sales.csv",
		},
		Pipeline: config.PipelineConfig{ReferenceYear: 2024, RenderCharts: true},
		Forecast: config.ForecastConfig{Horizon: 2, Alpha: 0.5, Beta: 0.3, Gamma: 0.2},
	}
	return cfg, config.NewPaths(cfg.Paths)
}

func writeRawDataset(t *testing.T, paths *config.Paths) {
	t.Helper()
	require.NoError(t, os.MkdirAll(paths.RawDir, 0755))

	var b strings.Builder
	b.WriteString("Model,Year,Region,Color,Fuel_Type,Transmission,Engine_Size_L,Mileage_KM,Price_USD,Sales_Volume\n")
	models := []struct {
		model string
		fuel  string
		price float64
	}{
		{"3 Series", "Petrol", 45000},
		{"X5", "Diesel", 72000},
		{"i4", "Electric", 58000},
	}
	for year := 2019; year <= 2022; year++ {
		for i, m := range models {
			fmt.Fprintf(&b, "%s,%d,Europe,Black,%s,Automatic,2.0,%d,%.0f,%d\n",
				m.model, year, m.fuel, 10000+i*500, m.price, 1000+100*(year-2019)+50*i)
			fmt.Fprintf(&b, "%s,%d,Asia,White,%s,Automatic,2.0,%d,%.0f,%d\n",
				m.model, year, m.fuel, 12000+i*500, m.price, 800+80*(year-2019)+40*i)
		}
	}
	// One duplicate and one row with a missing price.
	b.WriteString("3 Series,2019,Europe,Black,Petrol,Automatic,2.0,10000,45000,1000\n")
	b.WriteString("X5,2020,Asia,White,Diesel,Automatic,2.0,12500,,880\n")

	require.NoError(t, os.WriteFile(paths.RawFile, []byte(b.String()), 0644))
}

func TestPipeline_Run(t *testing.T) {
	cfg, paths := testConfig(t)
	writeRawDataset(t, paths)

	summary, err := New(cfg, paths).Run(context.Background(), Options{Forecast: true})
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Greater(t, summary.RowsLoaded, 0)
	assert.Greater(t, summary.RowsCleaned, 0)
	assert.LessOrEqual(t, summary.RowsCleaned, summary.RowsLoaded)
	assert.Equal(t, 5, summary.ChartsDrawn)
	assert.Greater(t, summary.Forecasts, 0)

	stageNames := make([]string, 0, len(summary.Stages))
	for _, s := range summary.Stages {
		stageNames = append(stageNames, s.Name)
	}
	assert.Equal(t, []string{
		StageLoad, StageInspect, StageClean, StageFeatures,
		StageAnalyze, StageCharts, StageForecast,
	}, stageNames)

	for _, path := range []string{
		paths.CleanedCSV,
		paths.FeaturesCSV,
		paths.YearlyCSV,
		paths.RegionYearCSV,
		paths.SummaryTXT,
		paths.ReportXLSX,
		paths.ForecastCSV,
		filepath.Join(paths.ChartsDir, "sales_trend.png"),
	} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, info.Size(), int64(0), path)
	}
}

func TestPipeline_Run_SkipOptionalStages(t *testing.T) {
	cfg, paths := testConfig(t)
	writeRawDataset(t, paths)

	summary, err := New(cfg, paths).Run(context.Background(), Options{SkipCharts: true})
	require.NoError(t, err)

	for _, s := range summary.Stages {
		assert.NotEqual(t, StageCharts, s.Name)
		assert.NotEqual(t, StageForecast, s.Name)
	}
	assert.Zero(t, summary.ChartsDrawn)
	assert.Zero(t, summary.Forecasts)

	_, err = os.Stat(paths.ForecastCSV)
	assert.True(t, os.IsNotExist(err))
}

func TestPipeline_Run_MissingInput(t *testing.T) {
	cfg, paths := testConfig(t)

	_, err := New(cfg, paths).Run(context.Background(), Options{})
	assert.Error(t, err)
}

func TestPipeline_Run_InputOverride(t *testing.T) {
	cfg, paths := testConfig(t)
	writeRawDataset(t, paths)

	altPath := filepath.Join(t.TempDir(), "alt.csv")
	data, err := os.ReadFile(paths.RawFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(altPath, data, 0644))
	require.NoError(t, os.Remove(paths.RawFile))

	summary, err := New(cfg, paths).Run(context.Background(), Options{InputPath: altPath, SkipCharts: true})
	require.NoError(t, err)
	assert.Greater(t, summary.RowsLoaded, 0)
}

func TestPipeline_Run_BadColumns(t *testing.T) {
	cfg, paths := testConfig(t)
	require.NoError(t, os.MkdirAll(paths.RawDir, 0755))
	require.NoError(t, os.WriteFile(paths.RawFile,
		[]byte("Foo,Bar\n1,2\n"), 0644))

	_, err := New(cfg, paths).Run(context.Background(), Options{})
	assert.Error(t, err)
}

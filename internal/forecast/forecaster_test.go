package forecast

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmwsales/internal/config"
	"bmwsales/internal/exporter"
	"bmwsales/pkg/contracts/domain"
)

func TestHolt_LinearSeriesExact(t *testing.T) {
	h, err := NewHolt(0.5, 0.3)
	require.NoError(t, err)

	// y = 100 + 50t is captured exactly by level+trend smoothing.
	series := []float64{100, 150, 200, 250, 300}
	out, err := h.Fit(series, 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.InDelta(t, 350, out[0], 1e-9)
	assert.InDelta(t, 400, out[1], 1e-9)
	assert.InDelta(t, 450, out[2], 1e-9)
}

func TestHolt_TooShort(t *testing.T) {
	h, err := NewHolt(0.5, 0.3)
	require.NoError(t, err)

	_, err = h.Fit([]float64{1, 2}, 1)
	assert.Error(t, err)
}

func TestNewHolt_InvalidFactors(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		beta  float64
	}{
		{"zero alpha", 0, 0.3},
		{"alpha above one", 1.5, 0.3},
		{"zero beta", 0.5, 0},
		{"negative beta", 0.5, -0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHolt(tt.alpha, tt.beta)
			assert.Error(t, err)
		})
	}
}

func TestMonthlySeries_FillsCalendarGaps(t *testing.T) {
	records := []domain.SalesRecord{
		{Year: 2022, Month: 11, SalesVolume: 100},
		{Year: 2022, Month: 12, SalesVolume: 200},
		// January 2023 has no records at all.
		{Year: 2023, Month: 2, SalesVolume: 300},
		{Year: 2023, Month: 2, SalesVolume: 50},
	}

	series, last := monthlySeries(records)
	require.Len(t, series, 4)
	assert.Equal(t, []float64{100, 200, 0, 350}, series)
	assert.Equal(t, monthKey{2023, 2}, last)
}

func TestMonthlySeries_SkipsInvalidMonths(t *testing.T) {
	records := []domain.SalesRecord{
		{Year: 2022, Month: 0, SalesVolume: 100},
		{Year: 2022, Month: 13, SalesVolume: 100},
	}
	series, _ := monthlySeries(records)
	assert.Nil(t, series)
}

func TestHoltWinters_FlatSeasonalExact(t *testing.T) {
	hw, err := NewHoltWinters(0.5, 0.3, 0.2, 4)
	require.NoError(t, err)

	// A constant level with a repeating seasonal offset is reproduced
	// exactly by the additive model.
	season := []float64{10, -5, 20, -25}
	series := make([]float64, 0, 12)
	for cycle := 0; cycle < 3; cycle++ {
		for _, s := range season {
			series = append(series, 100+s)
		}
	}

	out, err := hw.Fit(series, 4)
	require.NoError(t, err)
	for i, s := range season {
		assert.InDelta(t, 100+s, out[i], 1e-9, "step %d", i)
	}
}

func TestHoltWinters_NeedsTwoSeasons(t *testing.T) {
	hw, err := NewHoltWinters(0.5, 0.3, 0.2, 12)
	require.NoError(t, err)

	_, err = hw.Fit(make([]float64, 18), 1)
	assert.Error(t, err)
}

func testForecaster(t *testing.T) (*Forecaster, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(config.PathsConfig{DataDir: t.TempDir()})
	cfg := config.ForecastConfig{Enabled: true, Horizon: 2, Alpha: 0.5, Beta: 0.3, Gamma: 0.2}
	return NewForecaster(cfg, exporter.NewCSVWriter(paths)), paths
}

func TestForecaster_Run(t *testing.T) {
	f, _ := testForecaster(t)

	var records []domain.SalesRecord
	for year := 2019; year <= 2022; year++ {
		records = append(records,
			domain.SalesRecord{Region: "Europe", Year: year, SalesVolume: float64(1000 + 100*(year-2019))},
			domain.SalesRecord{Region: "Asia", Year: year, SalesVolume: float64(500 + 50*(year-2019))},
		)
	}
	// Too few years to fit, must be skipped without failing the run.
	records = append(records,
		domain.SalesRecord{Region: "Africa", Year: 2021, SalesVolume: 10},
		domain.SalesRecord{Region: "Africa", Year: 2022, SalesVolume: 20},
	)

	predictions, err := f.Run(context.Background(), records)
	require.NoError(t, err)

	slices := make(map[string]int)
	for _, p := range predictions {
		slices[p.Slice]++
	}
	assert.Equal(t, map[string]int{
		OverallSlice:    2,
		"region:Europe": 2,
		"region:Asia":   2,
	}, slices)

	for _, p := range predictions {
		if p.Slice == "region:Europe" && p.Period == "2023" {
			assert.InDelta(t, 1400, p.Forecast, 1e-9)
		}
		assert.GreaterOrEqual(t, p.Forecast, 0.0)
	}
}

func TestForecaster_Run_NoFittableSlice(t *testing.T) {
	f, _ := testForecaster(t)

	records := []domain.SalesRecord{
		{Region: "Europe", Year: 2021, SalesVolume: 100},
		{Region: "Europe", Year: 2022, SalesVolume: 120},
	}
	_, err := f.Run(context.Background(), records)
	assert.Error(t, err)
}

func TestForecaster_Run_MonthlySeasonal(t *testing.T) {
	f, _ := testForecaster(t)

	var records []domain.SalesRecord
	for year := 2020; year <= 2022; year++ {
		for month := 1; month <= 12; month++ {
			volume := 100.0
			if month == 12 {
				volume = 150 // year-end bump
			}
			records = append(records, domain.SalesRecord{
				Region: "Europe", Year: year, Month: month, SalesVolume: volume,
			})
		}
	}

	predictions, err := f.Run(context.Background(), records)
	require.NoError(t, err)

	var monthly []Prediction
	for _, p := range predictions {
		if strings.HasSuffix(p.Slice, "-monthly") {
			monthly = append(monthly, p)
		}
	}
	require.Len(t, monthly, 2)
	assert.Equal(t, "2023-01", monthly[0].Period)
	assert.Equal(t, "2023-02", monthly[1].Period)
	assert.InDelta(t, 100, monthly[0].Forecast, 1e-6)
}

func TestForecaster_WriteCSV(t *testing.T) {
	f, paths := testForecaster(t)

	predictions := []Prediction{
		{Slice: "overall", Period: "2025", Forecast: 1234.5},
		{Slice: "region:Europe", Period: "2025", Forecast: 600},
	}
	path := filepath.Join(paths.ReportsDir, "volume_forecast.csv")
	require.NoError(t, f.WriteCSV(predictions, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xef\xbb\xbf")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Slice", "Period", "Forecast"}, rows[0])
	assert.Equal(t, []string{"overall", "2025", "1234.50"}, rows[1])
}

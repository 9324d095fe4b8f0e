package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmwsales/internal/features"
	"bmwsales/pkg/contracts/domain"
)

func featuredRecords(t *testing.T) []domain.SalesRecord {
	t.Helper()
	records := []domain.SalesRecord{
		{Model: "3 Series", Year: 2020, Region: "Europe", FuelType: "Petrol", EngineSizeL: 2.0, PriceUSD: 45_000, SalesVolume: 1200},
		{Model: "3 Series", Year: 2021, Region: "Europe", FuelType: "Petrol", EngineSizeL: 2.0, PriceUSD: 46_000, SalesVolume: 1500},
		{Model: "M5", Year: 2020, Region: "Europe", FuelType: "Petrol", EngineSizeL: 4.4, PriceUSD: 110_000, SalesVolume: 300},
		{Model: "M5", Year: 2021, Region: "Europe", FuelType: "Petrol", EngineSizeL: 4.4, PriceUSD: 112_000, SalesVolume: 450},
		{Model: "X5", Year: 2020, Region: "Asia", FuelType: "Diesel", EngineSizeL: 3.0, PriceUSD: 72_000, SalesVolume: 800},
		{Model: "i4", Year: 2021, Region: "Asia", FuelType: "Electric", EngineSizeL: 0, PriceUSD: 58_000, SalesVolume: 650},
	}
	out, err := features.NewEngineer(2024).Apply(context.Background(), records)
	require.NoError(t, err)
	return out
}

func TestSegmentMetrics(t *testing.T) {
	metrics := SegmentMetrics(featuredRecords(t))
	require.Len(t, metrics, 3) // Entry, Premium, Performance present

	byLabel := make(map[domain.MarketSegment]SegmentMetric)
	shareSum := 0.0
	for _, m := range metrics {
		byLabel[m.Segment] = m
		shareSum += m.SharePct
	}
	assert.InDelta(t, 100.0, shareSum, 1e-9)

	entry := byLabel[domain.SegmentEntry]
	assert.Equal(t, 3350.0, entry.TotalVolume) // 1200+1500+650
	assert.InDelta(t, 49_666.67, entry.AvgPrice, 0.01)

	perf := byLabel[domain.SegmentPerformance]
	assert.Equal(t, 750.0, perf.TotalVolume)
	assert.InDelta(t, 50.0, perf.YoYGrowthPct, 1e-9) // 450 vs 300
}

func TestSegmentMetrics_SingleYearNoGrowth(t *testing.T) {
	records := featuredRecords(t)[:1]
	metrics := SegmentMetrics(records)
	require.Len(t, metrics, 1)
	assert.Equal(t, 0.0, metrics[0].YoYGrowthPct)
}

func TestRegionalMetrics(t *testing.T) {
	report := RegionalMetrics(featuredRecords(t))

	require.Contains(t, report.TopModels, "Europe")
	topEurope := report.TopModels["Europe"]
	require.NotEmpty(t, topEurope)
	assert.Equal(t, "3 Series", topEurope[0].Model)
	assert.Equal(t, 2700.0, topEurope[0].TotalVolume)

	shares := report.SegmentSharePct["Asia"]
	sum := 0.0
	for _, pct := range shares {
		sum += pct
	}
	assert.InDelta(t, 100.0, sum, 1e-9)

	require.Len(t, report.Volumes, 4)
	assert.Equal(t, "Asia", report.Volumes[0].Region)
}

func TestRegionalMetrics_TopModelsCapped(t *testing.T) {
	records := featuredRecords(t)
	extra := []domain.SalesRecord{
		{Model: "X1", Year: 2020, Region: "Europe", PriceUSD: 40_000, SalesVolume: 10},
		{Model: "X3", Year: 2020, Region: "Europe", PriceUSD: 50_000, SalesVolume: 20},
		{Model: "Z4", Year: 2020, Region: "Europe", PriceUSD: 55_000, SalesVolume: 30},
	}
	report := RegionalMetrics(append(records, extra...))
	assert.Len(t, report.TopModels["Europe"], 3)
}

func TestComputeTimeSeriesMetrics(t *testing.T) {
	rollup := []features.YearlyAggregate{
		{Year: 2020, TotalVolume: 1000, AvgPrice: 50_000, GreenVolume: 100},
		{Year: 2021, TotalVolume: 1200, AvgPrice: 52_000, GreenVolume: 150, SalesYoYPct: 20, PriceYoYPct: 4},
		{Year: 2022, TotalVolume: 1500, AvgPrice: 52_000, GreenVolume: 300, SalesYoYPct: 25, PriceYoYPct: 0},
	}

	metrics := ComputeTimeSeriesMetrics(rollup)
	assert.InDelta(t, 22.5, metrics.AvgYearlyGrowthPct, 1e-9)
	assert.InDelta(t, 2.0, metrics.PriceTrendPct, 1e-9)
	assert.InDelta(t, 200.0, metrics.GreenVehicleGrowthPct, 1e-9)
}

func TestComputeTimeSeriesMetrics_TooFewYears(t *testing.T) {
	metrics := ComputeTimeSeriesMetrics([]features.YearlyAggregate{{Year: 2020}})
	assert.Zero(t, metrics.AvgYearlyGrowthPct)
	assert.Zero(t, metrics.GreenVehicleGrowthPct)
}

func TestAnalyze_WritesReports(t *testing.T) {
	records := featuredRecords(t)
	rollup := features.YearlyRollup(records)

	report, err := Analyze(context.Background(), records, rollup)
	require.NoError(t, err)
	assert.Equal(t, len(records), report.RecordCount)
	assert.Equal(t, []int{2020, 2021}, report.Years)

	dir := t.TempDir()
	txtPath := filepath.Join(dir, "reports", "analysis_summary.txt")
	require.NoError(t, report.WriteSummaryText(txtPath))

	data, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "MARKET SEGMENTS")
	assert.Contains(t, text, "PRICE-VOLUME CORRELATION")
	assert.Contains(t, text, "Entry")

	xlsxPath := filepath.Join(dir, "reports", "analysis_report.xlsx")
	require.NoError(t, report.WriteWorkbook(xlsxPath))
	_, err = os.Stat(xlsxPath)
	assert.NoError(t, err)
}

func TestAnalyze_EmptyRecords(t *testing.T) {
	_, err := Analyze(context.Background(), nil, nil)
	assert.Error(t, err)
}

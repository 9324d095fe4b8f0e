package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"bmwsales/internal/errors"
	"bmwsales/internal/exporter"
	"bmwsales/internal/features"
	"bmwsales/internal/infrastructure"
	"bmwsales/pkg/contracts/domain"
)

// Report bundles every analysis result for a single run
type Report struct {
	RecordCount  int
	Years        []int
	Segments     []SegmentMetric
	Regional     RegionalReport
	Yearly       []features.YearlyAggregate
	TimeSeries   TimeSeriesMetrics
	Correlations CorrelationReport
}

// Analyze computes the full descriptive-statistics report from the
// feature-engineered records.
func Analyze(ctx context.Context, records []domain.SalesRecord, rollup []features.YearlyAggregate) (*Report, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	if len(records) == 0 {
		return nil, errors.NewAnalysisError("analysis requires a non-empty record set", nil)
	}

	yearSet := make(map[int]bool)
	for _, r := range records {
		yearSet[r.Year] = true
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	report := &Report{
		RecordCount:  len(records),
		Years:        years,
		Segments:     SegmentMetrics(records),
		Regional:     RegionalMetrics(records),
		Yearly:       rollup,
		TimeSeries:   ComputeTimeSeriesMetrics(rollup),
		Correlations: PriceVolumeCorrelation(ctx, records),
	}

	logger.InfoContext(ctx, "analysis complete",
		slog.Int("records", report.RecordCount),
		slog.Int("segments", len(report.Segments)),
		slog.Int("regions", len(report.Regional.TopModels)),
		slog.Float64("price_volume_correlation", report.Correlations.Overall))

	return report, nil
}

// WriteSummaryText writes the findings as a plain-text report
func (r *Report) WriteSummaryText(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create reports directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create summary report", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "BMW Worldwide Sales Analysis - Summary Report\n")
	fmt.Fprintf(file, "=============================================\n\n")
	fmt.Fprintf(file, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(file, "DATASET OVERVIEW\n")
	fmt.Fprintf(file, "----------------\n")
	fmt.Fprintf(file, "Records: %d\n", r.RecordCount)
	if len(r.Years) > 0 {
		fmt.Fprintf(file, "Years: %d to %d\n", r.Years[0], r.Years[len(r.Years)-1])
	}
	fmt.Fprintf(file, "Regions: %d\n\n", len(r.Regional.TopModels))

	fmt.Fprintf(file, "MARKET SEGMENTS\n")
	fmt.Fprintf(file, "---------------\n")
	for _, m := range r.Segments {
		fmt.Fprintf(file, "%-13s volume %10.0f  share %5.1f%%  avg price %10.0f  YoY %+.1f%%\n",
			m.Segment, m.TotalVolume, m.SharePct, m.AvgPrice, m.YoYGrowthPct)
	}
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "REGIONAL PERFORMANCE\n")
	fmt.Fprintf(file, "--------------------\n")
	regions := make([]string, 0, len(r.Regional.TopModels))
	for region := range r.Regional.TopModels {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	for _, region := range regions {
		fmt.Fprintf(file, "%s top models:", region)
		for i, mv := range r.Regional.TopModels[region] {
			if i > 0 {
				fmt.Fprintf(file, ",")
			}
			fmt.Fprintf(file, " %s (%.0f)", mv.Model, mv.TotalVolume)
		}
		fmt.Fprintf(file, "\n")
	}
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "TREND METRICS\n")
	fmt.Fprintf(file, "-------------\n")
	fmt.Fprintf(file, "Average yearly sales growth: %+.2f%%\n", r.TimeSeries.AvgYearlyGrowthPct)
	fmt.Fprintf(file, "Average price trend: %+.2f%%\n", r.TimeSeries.PriceTrendPct)
	fmt.Fprintf(file, "Green vehicle volume growth: %+.2f%%\n\n", r.TimeSeries.GreenVehicleGrowthPct)

	fmt.Fprintf(file, "PRICE-VOLUME CORRELATION\n")
	fmt.Fprintf(file, "------------------------\n")
	fmt.Fprintf(file, "Overall: %.4f\n", r.Correlations.Overall)
	for _, segment := range domain.MarketSegments {
		if corr, ok := r.Correlations.PerSegment[segment]; ok {
			fmt.Fprintf(file, "%-13s %.4f\n", segment, corr)
		}
	}

	return nil
}

// WriteWorkbook writes the findings as a multi-sheet Excel workbook
func (r *Report) WriteWorkbook(path string) error {
	w := exporter.NewWorkbookWriter()

	segmentRows := make([][]interface{}, 0, len(r.Segments))
	for _, m := range r.Segments {
		segmentRows = append(segmentRows, []interface{}{
			string(m.Segment), m.TotalVolume, m.SharePct, m.AvgPrice, m.YoYGrowthPct,
		})
	}
	if err := w.AddSheet("Segments",
		[]string{"Segment", "Total Volume", "Share %", "Avg Price", "YoY Growth %"},
		segmentRows); err != nil {
		return errors.NewStorageError("failed to build Segments sheet", err)
	}

	regionRows := make([][]interface{}, 0, len(r.Regional.Volumes))
	for _, rv := range r.Regional.Volumes {
		regionRows = append(regionRows, []interface{}{rv.Region, rv.Year, rv.TotalVolume})
	}
	if err := w.AddSheet("Regions",
		[]string{"Region", "Year", "Total Volume"},
		regionRows); err != nil {
		return errors.NewStorageError("failed to build Regions sheet", err)
	}

	yearlyRows := make([][]interface{}, 0, len(r.Yearly))
	for _, agg := range r.Yearly {
		yearlyRows = append(yearlyRows, []interface{}{
			agg.Year, agg.TotalVolume, agg.AvgPrice, agg.GreenVolume, agg.SalesYoYPct, agg.PriceYoYPct,
		})
	}
	if err := w.AddSheet("Yearly",
		[]string{"Year", "Total Volume", "Avg Price", "Green Volume", "Sales YoY %", "Price YoY %"},
		yearlyRows); err != nil {
		return errors.NewStorageError("failed to build Yearly sheet", err)
	}

	corrRows := [][]interface{}{{"Overall", r.Correlations.Overall}}
	for _, segment := range domain.MarketSegments {
		if corr, ok := r.Correlations.PerSegment[segment]; ok {
			corrRows = append(corrRows, []interface{}{string(segment), corr})
		}
	}
	if err := w.AddSheet("Correlations",
		[]string{"Slice", "Price-Volume Correlation"},
		corrRows); err != nil {
		return errors.NewStorageError("failed to build Correlations sheet", err)
	}

	if err := w.Save(path); err != nil {
		return errors.NewStorageError("failed to save analysis workbook", err)
	}
	return nil
}

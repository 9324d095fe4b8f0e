package dataset

import (
	"context"
	"log/slog"

	"bmwsales/internal/infrastructure"
)

// InspectReport summarizes the shape and completeness of a table
type InspectReport struct {
	RowCount       int
	ColumnCount    int
	MissingCount   map[string]int
	MissingPercent map[string]float64

	// Aggregates over all cells
	TotalMissing        int
	TotalMissingPercent float64
}

// Inspect computes row/column counts and per-column missing-value counts,
// and logs any column that has gaps.
func Inspect(ctx context.Context, table *Table) InspectReport {
	logger := infrastructure.LoggerFromContext(ctx)

	report := InspectReport{
		RowCount:       len(table.Rows),
		ColumnCount:    len(table.Columns),
		MissingCount:   make(map[string]int, len(table.Columns)),
		MissingPercent: make(map[string]float64, len(table.Columns)),
	}

	for i, col := range table.Columns {
		missing := 0
		for _, row := range table.Rows {
			if row[i] == "" {
				missing++
			}
		}
		report.MissingCount[col] = missing
		report.TotalMissing += missing
		if report.RowCount > 0 {
			report.MissingPercent[col] = float64(missing) / float64(report.RowCount) * 100
		}
	}
	if cells := report.RowCount * report.ColumnCount; cells > 0 {
		report.TotalMissingPercent = float64(report.TotalMissing) / float64(cells) * 100
	}

	logger.InfoContext(ctx, "inspected dataset",
		slog.Int("rows", report.RowCount),
		slog.Int("columns", report.ColumnCount))

	for _, col := range table.Columns {
		if report.MissingCount[col] > 0 {
			logger.InfoContext(ctx, "column has missing values",
				slog.String("column", col),
				slog.Int("missing", report.MissingCount[col]),
				slog.Float64("missing_percent", report.MissingPercent[col]))
		}
	}

	return report
}

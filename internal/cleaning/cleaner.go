package cleaning

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"bmwsales/internal/dataset"
	"bmwsales/internal/errors"
	"bmwsales/internal/exporter"
	"bmwsales/internal/infrastructure"
	"bmwsales/pkg/contracts/domain"
)

// integerColumns impute with a rounded median instead of a fractional one
var integerColumns = map[string]bool{
	dataset.ColYear:  true,
	dataset.ColMonth: true,
}

// CleanReport records what the cleaning pass did to the table
type CleanReport struct {
	RowsIn            int
	RowsOut           int
	DuplicatesRemoved int
	RowsDroppedSanity int
	ImputedPerColumn  map[string]int
	SkippedColumns    []string // columns that were entirely missing
}

// Cleaner fills missing values, removes duplicate rows, and drops rows
// that fail the domain sanity checks. It mutates a copy of the input table.
type Cleaner struct {
	csvWriter *exporter.CSVWriter
}

// NewCleaner creates a cleaner that writes its output through the given
// CSV writer.
func NewCleaner(csvWriter *exporter.CSVWriter) *Cleaner {
	return &Cleaner{csvWriter: csvWriter}
}

// Clean runs the full cleaning pass: impute, dedupe, sanity-filter.
// The input table is not modified.
func (c *Cleaner) Clean(ctx context.Context, table *dataset.Table) (*dataset.Table, CleanReport, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	if len(table.Rows) == 0 {
		return nil, CleanReport{}, errors.NewValidationError("cannot clean an empty table")
	}

	cleaned := table.Clone()
	report := CleanReport{
		RowsIn:           len(cleaned.Rows),
		ImputedPerColumn: make(map[string]int),
	}

	c.fillMissing(ctx, cleaned, &report)
	c.dropDuplicates(ctx, cleaned, &report)
	c.sanityFilter(ctx, cleaned, &report)

	report.RowsOut = len(cleaned.Rows)

	if report.RowsOut == 0 {
		return nil, report, errors.NewValidationError("no rows survived cleaning")
	}

	logger.InfoContext(ctx, "cleaning complete",
		slog.Int("rows_in", report.RowsIn),
		slog.Int("rows_out", report.RowsOut),
		slog.Int("duplicates_removed", report.DuplicatesRemoved),
		slog.Int("rows_dropped_sanity", report.RowsDroppedSanity))

	return cleaned, report, nil
}

// WriteCSV writes the cleaned table to the given path
func (c *Cleaner) WriteCSV(table *dataset.Table, path string) error {
	if err := c.csvWriter.WriteSimpleCSV(path, table.Columns, table.Rows); err != nil {
		return errors.NewStorageError("failed to write cleaned table", err)
	}
	return nil
}

// fillMissing replaces missing cells with the column median (numeric) or
// mode (categorical). Columns that are entirely missing are skipped.
func (c *Cleaner) fillMissing(ctx context.Context, table *dataset.Table, report *CleanReport) {
	logger := infrastructure.LoggerFromContext(ctx)

	for colIdx, col := range table.Columns {
		var fill string
		var ok bool

		if dataset.NumericColumns[col] {
			var values []float64
			for _, row := range table.Rows {
				if row[colIdx] == "" {
					continue
				}
				if v, err := strconv.ParseFloat(row[colIdx], 64); err == nil {
					values = append(values, v)
				}
			}
			var m float64
			if m, ok = median(values); ok {
				if integerColumns[col] {
					// keep integer columns integral (an even-count median
					// can land between two years)
					fill = strconv.Itoa(int(math.Round(m)))
				} else {
					fill = strconv.FormatFloat(m, 'f', -1, 64)
				}
			}
		} else {
			var values []string
			for _, row := range table.Rows {
				if row[colIdx] != "" {
					values = append(values, row[colIdx])
				}
			}
			fill, ok = mode(values)
		}

		if !ok {
			report.SkippedColumns = append(report.SkippedColumns, col)
			logger.WarnContext(ctx, "column entirely missing, skipping imputation",
				slog.String("column", col))
			continue
		}

		imputed := 0
		for _, row := range table.Rows {
			if row[colIdx] == "" {
				row[colIdx] = fill
				imputed++
			}
		}
		if imputed > 0 {
			report.ImputedPerColumn[col] = imputed
			logger.InfoContext(ctx, "imputed missing values",
				slog.String("column", col),
				slog.Int("count", imputed),
				slog.String("fill_value", fill))
		}
	}
}

// dropDuplicates removes exact duplicate rows, keeping first occurrences
func (c *Cleaner) dropDuplicates(ctx context.Context, table *dataset.Table, report *CleanReport) {
	seen := make(map[string]bool, len(table.Rows))
	kept := table.Rows[:0]

	for _, row := range table.Rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			report.DuplicatesRemoved++
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}

	table.Rows = kept
}

// sanityFilter drops rows violating the domain sanity checks: price > 0,
// volume >= 0, year within the dataset range. Unparseable cells in those
// columns also fail the row.
func (c *Cleaner) sanityFilter(ctx context.Context, table *dataset.Table, report *CleanReport) {
	priceIdx := table.ColumnIndex(dataset.ColPriceUSD)
	volumeIdx := table.ColumnIndex(dataset.ColSalesVolume)
	yearIdx := table.ColumnIndex(dataset.ColYear)

	kept := table.Rows[:0]

	for _, row := range table.Rows {
		if !rowPassesSanity(row, priceIdx, volumeIdx, yearIdx) {
			report.RowsDroppedSanity++
			continue
		}
		kept = append(kept, row)
	}

	table.Rows = kept
}

func rowPassesSanity(row []string, priceIdx, volumeIdx, yearIdx int) bool {
	if priceIdx >= 0 {
		price, err := strconv.ParseFloat(row[priceIdx], 64)
		if err != nil || price <= 0 {
			return false
		}
	}
	if volumeIdx >= 0 {
		volume, err := strconv.ParseFloat(row[volumeIdx], 64)
		if err != nil || volume < 0 {
			return false
		}
	}
	if yearIdx >= 0 {
		year, err := dataset.ParseIntCell(row[yearIdx])
		if err != nil || year < domain.MinYear || year > domain.MaxYear {
			return false
		}
	}
	return true
}

package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strings"

	"bmwsales/internal/errors"
	"bmwsales/internal/infrastructure"
)

// Load reads a raw CSV dataset into a Table. The first row must be a
// header; column order is free and headers are canonicalized. A UTF-8 BOM
// is tolerated. Short rows are padded with missing cells, overlong rows are
// skipped with a warning. A missing or empty file is a fatal error.
func Load(ctx context.Context, path string) (*Table, error) {
	logger := infrastructure.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "loading raw dataset", slog.String("path", path))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("raw dataset").WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open raw dataset", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewStorageError("failed to read raw dataset", err)
	}

	// Remove BOM if present
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to parse raw CSV", err)
	}

	if len(records) == 0 {
		return nil, errors.NewParsingError("raw dataset is empty", nil).WithContext("path", path)
	}
	if len(records) < 2 {
		return nil, errors.NewParsingError("raw dataset contains only a header", nil).WithContext("path", path)
	}

	columns := make([]string, len(records[0]))
	for i, header := range records[0] {
		columns[i] = CanonicalColumn(header)
	}

	table := &Table{
		Columns: columns,
		Rows:    make([][]string, 0, len(records)-1),
	}

	skipped := 0
	for i, record := range records[1:] {
		if len(record) > len(columns) {
			logger.WarnContext(ctx, "skipping overlong row",
				slog.Int("line", i+2),
				slog.Int("cells", len(record)),
				slog.Int("columns", len(columns)))
			skipped++
			continue
		}

		row := make([]string, len(columns))
		for j := range record {
			row[j] = strings.TrimSpace(record[j])
		}
		table.Rows = append(table.Rows, row)
	}

	logger.InfoContext(ctx, "loaded raw dataset",
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Columns)),
		slog.Int("skipped_rows", skipped))

	return table, nil
}

// CheckRequiredColumns verifies that every required column is present.
func CheckRequiredColumns(table *Table) error {
	var missing []string
	for _, col := range RequiredColumns {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return errors.NewValidationError("missing required columns: " + strings.Join(missing, ", "))
	}
	return nil
}

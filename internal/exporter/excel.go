package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WorkbookWriter builds a multi-sheet Excel workbook. Sheets are added in
// order; the first sheet added replaces the default sheet.
type WorkbookWriter struct {
	file       *excelize.File
	sheetCount int
}

// NewWorkbookWriter creates an empty workbook
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{file: excelize.NewFile()}
}

// AddSheet appends a sheet with a bold header row followed by data rows.
func (w *WorkbookWriter) AddSheet(name string, headers []string, rows [][]interface{}) error {
	if w.sheetCount == 0 {
		// Rename the default sheet rather than leaving an empty Sheet1
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("failed to rename default sheet: %w", err)
		}
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}
	w.sheetCount++

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := w.file.SetCellValue(name, cell, header); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	if len(headers) > 0 {
		styleID, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err == nil {
			first, _ := excelize.CoordinatesToCellName(1, 1)
			last, _ := excelize.CoordinatesToCellName(len(headers), 1)
			_ = w.file.SetCellStyle(name, first, last, styleID)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to resolve data cell: %w", err)
			}
			if err := w.file.SetCellValue(name, cell, value); err != nil {
				return fmt.Errorf("failed to write data cell: %w", err)
			}
		}
	}

	return nil
}

// Save writes the workbook to disk, creating parent directories as needed.
func (w *WorkbookWriter) Save(path string) error {
	if w.sheetCount == 0 {
		return fmt.Errorf("refusing to save workbook with no sheets")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	slog.Info("Writing Excel workbook",
		slog.String("path", path),
		slog.Int("sheet_count", w.sheetCount))

	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return w.file.Close()
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for every file the pipeline reads or
// writes. Layout:
//
//	data/
//	  ├── raw/          (input dataset, downloaded from Kaggle)
//	  ├── processed/    (cleaned / feature-engineered CSV tables)
//	  ├── reports/      (text summary, Excel workbook, forecast CSV)
//	  └── charts/       (rendered PNG charts)
//	logs/               (application logs)
type Paths struct {
	DataDir      string
	RawDir       string
	ProcessedDir string
	ReportsDir   string
	ChartsDir    string
	LogsDir      string

	// Well-known files
	RawFile       string
	CleanedCSV    string
	FeaturesCSV   string
	YearlyCSV     string
	RegionYearCSV string
	SummaryTXT    string
	ReportXLSX    string
	ForecastCSV   string
}

// NewPaths builds the path set from the paths configuration. Relative
// directories are kept relative so runs work from the repository root.
func NewPaths(cfg PathsConfig) *Paths {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	logsDir := cfg.LogsDir
	if logsDir == "" {
		logsDir = "logs"
	}

	rawFile := cfg.RawFile
	if !filepath.IsAbs(rawFile) {
		rawFile = filepath.Join(dataDir, rawFile)
	}

	processedDir := filepath.Join(dataDir, "processed")
	reportsDir := filepath.Join(dataDir, "reports")
	chartsDir := filepath.Join(dataDir, "charts")

	return &Paths{
		DataDir:      dataDir,
		RawDir:       filepath.Join(dataDir, "raw"),
		ProcessedDir: processedDir,
		ReportsDir:   reportsDir,
		ChartsDir:    chartsDir,
		LogsDir:      logsDir,

		RawFile:       rawFile,
		CleanedCSV:    filepath.Join(processedDir, "bmw_sales_cleaned.csv"),
		FeaturesCSV:   filepath.Join(processedDir, "bmw_sales_features.csv"),
		YearlyCSV:     filepath.Join(processedDir, "bmw_sales_yearly.csv"),
		RegionYearCSV: filepath.Join(processedDir, "bmw_sales_region_year.csv"),
		SummaryTXT:    filepath.Join(reportsDir, "analysis_summary.txt"),
		ReportXLSX:    filepath.Join(reportsDir, "analysis_report.xlsx"),
		ForecastCSV:   filepath.Join(reportsDir, "volume_forecast.csv"),
	}
}

// EnsureDirectories creates all output directories if they do not exist.
// The raw directory is created too so the validate tool can point users at it.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.RawDir,
		p.ProcessedDir,
		p.ReportsDir,
		p.ChartsDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetChartPath returns the full path for a chart image file
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetProcessedPath returns the full path for a processed table file
func (p *Paths) GetProcessedPath(filename string) string {
	return filepath.Join(p.ProcessedDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// ValidateRawFile checks that the raw dataset exists and is a regular file.
func (p *Paths) ValidateRawFile() error {
	info, err := os.Stat(p.RawFile)
	if os.IsNotExist(err) {
		return fmt.Errorf("raw dataset not found at %s (download from Kaggle and place it there)", p.RawFile)
	}
	if err != nil {
		return fmt.Errorf("failed to stat raw dataset: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("raw dataset path %s is a directory", p.RawFile)
	}
	return nil
}

package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bmwsales/internal/analysis"
	"bmwsales/internal/charts"
	"bmwsales/internal/cleaning"
	"bmwsales/internal/config"
	"bmwsales/internal/dataset"
	"bmwsales/internal/errors"
	"bmwsales/internal/exporter"
	"bmwsales/internal/features"
	"bmwsales/internal/forecast"
	"bmwsales/internal/infrastructure"
	"bmwsales/pkg/contracts/domain"
)

// Stage names, in execution order.
const (
	StageLoad     = "load"
	StageInspect  = "inspect"
	StageClean    = "clean"
	StageFeatures = "features"
	StageAnalyze  = "analyze"
	StageCharts   = "charts"
	StageForecast = "forecast"
)

// Options selects the optional stages for one run.
type Options struct {
	// InputPath overrides the configured raw dataset file when set.
	InputPath string
	// Forecast enables the forecast stage on top of the configured default.
	Forecast bool
	// SkipCharts disables chart rendering.
	SkipCharts bool
}

// StageResult records one completed stage.
type StageResult struct {
	Name     string
	Duration time.Duration
}

// Summary describes a finished pipeline run.
type Summary struct {
	RunID       string
	Stages      []StageResult
	RowsLoaded  int
	RowsCleaned int
	ChartsDrawn int
	Forecasts   int
	Duration    time.Duration
}

// Pipeline runs the sales analysis stages in sequence. The first stage
// error aborts the run.
type Pipeline struct {
	cfg   *config.Config
	paths *config.Paths
	csv   *exporter.CSVWriter
}

// New creates a pipeline over the given configuration.
func New(cfg *config.Config, paths *config.Paths) *Pipeline {
	return &Pipeline{
		cfg:   cfg,
		paths: paths,
		csv:   exporter.NewCSVWriter(paths),
	}
}

// Run executes load → inspect → clean → features → analyze → charts →
// forecast and returns a summary of the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	runID := uuid.New().String()
	ctx = infrastructure.WithRunID(ctx, runID)
	logger := infrastructure.LoggerFromContext(ctx)

	input := opts.InputPath
	if input == "" {
		input = p.paths.RawFile
	}

	summary := &Summary{RunID: runID}
	start := time.Now()
	logger.InfoContext(ctx, "pipeline run started",
		slog.String("input", input),
		slog.Bool("forecast", p.forecastEnabled(opts)),
		slog.Bool("charts", p.chartsEnabled(opts)))

	if err := p.paths.EnsureDirectories(); err != nil {
		return nil, errors.NewStorageError("failed to prepare output directories", err)
	}

	var (
		table   *dataset.Table
		cleaned *dataset.Table
		records []domain.SalesRecord
		yearly  []features.YearlyAggregate
		report  *analysis.Report
	)

	err := p.runStage(ctx, summary, StageLoad, func(ctx context.Context) error {
		var err error
		table, err = dataset.Load(ctx, input)
		if err != nil {
			return err
		}
		summary.RowsLoaded = len(table.Rows)
		return dataset.CheckRequiredColumns(table)
	})
	if err == nil {
		err = p.runStage(ctx, summary, StageInspect, func(ctx context.Context) error {
			inspect := dataset.Inspect(ctx, table)
			logger.InfoContext(ctx, "dataset inspected",
				slog.Int("rows", inspect.RowCount),
				slog.Int("columns", inspect.ColumnCount),
				slog.Int("missing_cells", inspect.TotalMissing),
				slog.Float64("missing_pct", inspect.TotalMissingPercent))
			return nil
		})
	}
	if err == nil {
		err = p.runStage(ctx, summary, StageClean, func(ctx context.Context) error {
			var cleanReport cleaning.CleanReport
			cleaner := cleaning.NewCleaner(p.csv)
			var err error
			cleaned, cleanReport, err = cleaner.Clean(ctx, table)
			if err != nil {
				return err
			}
			summary.RowsCleaned = cleanReport.RowsOut
			return cleaner.WriteCSV(cleaned, p.paths.CleanedCSV)
		})
	}
	if err == nil {
		err = p.runStage(ctx, summary, StageFeatures, func(ctx context.Context) error {
			var err error
			records, err = dataset.Records(ctx, cleaned)
			if err != nil {
				return err
			}
			records, err = features.NewEngineer(p.referenceYear()).Apply(ctx, records)
			if err != nil {
				return err
			}
			yearly = features.YearlyRollup(records)
			if err := features.WriteFeaturesCSV(p.csv, p.paths.FeaturesCSV, records); err != nil {
				return err
			}
			if err := features.WriteYearlyCSV(p.csv, p.paths.YearlyCSV, yearly); err != nil {
				return err
			}
			return features.WriteRegionYearCSV(p.csv, p.paths.RegionYearCSV, features.RegionYearRollup(records))
		})
	}
	if err == nil {
		err = p.runStage(ctx, summary, StageAnalyze, func(ctx context.Context) error {
			var err error
			report, err = analysis.Analyze(ctx, records, yearly)
			if err != nil {
				return err
			}
			if err := report.WriteSummaryText(p.paths.SummaryTXT); err != nil {
				return err
			}
			return report.WriteWorkbook(p.paths.ReportXLSX)
		})
	}
	if err == nil && p.chartsEnabled(opts) {
		err = p.runStage(ctx, summary, StageCharts, func(ctx context.Context) error {
			written, err := charts.NewRenderer(p.paths.ChartsDir).RenderAll(ctx, report, records)
			if err != nil {
				return err
			}
			summary.ChartsDrawn = len(written)
			return nil
		})
	}
	if err == nil && p.forecastEnabled(opts) {
		err = p.runStage(ctx, summary, StageForecast, func(ctx context.Context) error {
			forecaster := forecast.NewForecaster(p.cfg.Forecast, p.csv)
			predictions, err := forecaster.Run(ctx, records)
			if err != nil {
				return err
			}
			summary.Forecasts = len(predictions)
			return forecaster.WriteCSV(predictions, p.paths.ForecastCSV)
		})
	}

	summary.Duration = time.Since(start)
	if err != nil {
		logger.ErrorContext(ctx, "pipeline run failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", summary.Duration))
		return summary, err
	}

	logger.InfoContext(ctx, "pipeline run finished",
		slog.Int("rows_loaded", summary.RowsLoaded),
		slog.Int("rows_cleaned", summary.RowsCleaned),
		slog.Int("charts", summary.ChartsDrawn),
		slog.Int("forecasts", summary.Forecasts),
		slog.Duration("duration", summary.Duration))
	return summary, nil
}

func (p *Pipeline) forecastEnabled(opts Options) bool {
	return opts.Forecast || p.cfg.Forecast.Enabled
}

func (p *Pipeline) chartsEnabled(opts Options) bool {
	return !opts.SkipCharts && p.cfg.Pipeline.RenderCharts
}

func (p *Pipeline) referenceYear() int {
	if p.cfg.Pipeline.ReferenceYear > 0 {
		return p.cfg.Pipeline.ReferenceYear
	}
	return domain.ReferenceYear
}

// runStage times a single stage and logs its outcome.
func (p *Pipeline) runStage(ctx context.Context, summary *Summary, name string, fn func(context.Context) error) error {
	logger := infrastructure.LoggerFromContext(ctx)
	start := time.Now()
	logger.InfoContext(ctx, "stage started", slog.String("stage", name))

	if err := fn(ctx); err != nil {
		logger.ErrorContext(ctx, "stage failed",
			slog.String("stage", name),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return err
	}

	result := StageResult{Name: name, Duration: time.Since(start)}
	summary.Stages = append(summary.Stages, result)
	logger.InfoContext(ctx, "stage finished",
		slog.String("stage", name),
		slog.Duration("duration", result.Duration))
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"bmwsales/internal/config"
	"bmwsales/internal/infrastructure"
	"bmwsales/internal/pipeline"
	"bmwsales/pkg/contracts"
)

func main() {
	input := flag.String("input", "", "raw dataset CSV (defaults to the configured data/raw file)")
	outDir := flag.String("out", "", "base output directory (defaults to the configured data dir)")
	configFile := flag.String("config", "", "YAML config file (defaults to BMW_CONFIG_FILE or config.yaml)")
	runForecast := flag.Bool("forecast", false, "run the volume forecast stage")
	noCharts := flag.Bool("no-charts", false, "skip chart rendering")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionInfo())
		return
	}

	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.LoadWithFile(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *outDir != "" {
		cfg.Paths.DataDir = *outDir
	}
	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting BMW sales analysis pipeline",
		slog.String("data_dir", paths.DataDir),
		slog.Bool("forecast", *runForecast || cfg.Forecast.Enabled),
		slog.Bool("charts", !*noCharts && cfg.Pipeline.RenderCharts))

	summary, err := pipeline.New(cfg, paths).Run(context.Background(), pipeline.Options{
		InputPath:  *input,
		Forecast:   *runForecast,
		SkipCharts: *noCharts,
	})
	if err != nil {
		logger.Error("Pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Pipeline finished",
		slog.String("run_id", summary.RunID),
		slog.Int("rows_loaded", summary.RowsLoaded),
		slog.Int("rows_cleaned", summary.RowsCleaned),
		slog.Duration("duration", summary.Duration))

	fmt.Printf("Run %s finished in %s\n", summary.RunID, summary.Duration.Round(time.Millisecond))
	fmt.Printf("  rows loaded:   %d\n", summary.RowsLoaded)
	fmt.Printf("  rows cleaned:  %d\n", summary.RowsCleaned)
	fmt.Printf("  charts drawn:  %d\n", summary.ChartsDrawn)
	if summary.Forecasts > 0 {
		fmt.Printf("  forecasts:     %d\n", summary.Forecasts)
	}
	fmt.Printf("  reports:       %s\n", paths.ReportsDir)
}

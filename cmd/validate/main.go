package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"bmwsales/internal/config"
	"bmwsales/internal/dataset"
)

// main runs the preflight checks for the analysis pipeline: the raw
// dataset exists, carries the required columns, and the output
// directories are writable. Exit code 1 on any failure.
func main() {
	input := flag.String("input", "", "raw dataset CSV (defaults to the configured data/raw file)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	paths := config.NewPaths(cfg.Paths)

	rawFile := *input
	if rawFile == "" {
		rawFile = paths.RawFile
	}

	failures := 0
	check := func(name string, err error) {
		if err != nil {
			failures++
			fmt.Printf("FAIL  %-22s %v\n", name, err)
			return
		}
		fmt.Printf("ok    %s\n", name)
	}

	check("raw file present", statFile(rawFile))

	table, err := dataset.Load(context.Background(), rawFile)
	check("raw file readable", err)
	if err == nil {
		check("required columns", dataset.CheckRequiredColumns(table))
		fmt.Printf("      %d rows, %d columns\n", len(table.Rows), len(table.Columns))

		report := dataset.Inspect(context.Background(), table)
		fmt.Printf("      %d missing cells (%.1f%%)\n", report.TotalMissing, report.TotalMissingPercent)
	}

	check("output directories", paths.EnsureDirectories())
	check("processed dir writable", checkWritable(paths.ProcessedDir))

	if failures > 0 {
		fmt.Printf("\n%d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nall checks passed")
}

func statFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(f.Name())
}

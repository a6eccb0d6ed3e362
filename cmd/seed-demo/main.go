// The seed-demo command writes a small fixed ridership dataset so the
// downstream consumers have something to show before the first real
// pipeline run. The numbers are stable on purpose, demos and docs refer
// to them.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"transitqc/internal/config"
	"transitqc/internal/infrastructure"
	"transitqc/internal/tabular"
	"transitqc/internal/validation"
)

func main() {
	configPath := flag.String("config", "", "config file path (defaults to config.yaml, then configs/config.yaml)")
	outputDir := flag.String("output-dir", "", "target directory (defaults to the configured processed dir)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *outputDir == "" {
		*outputDir = cfg.Paths.Processed()
	}

	v := validation.NewInputValidator(logger)
	if err := v.ValidateOutputDir(*outputDir); err != nil {
		logger.Error("Output directory check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	demo := demoTable()
	csvPath := filepath.Join(*outputDir, "uil_demo.csv")
	parquetPath := filepath.Join(*outputDir, "uil_demo.parquet")

	logger.Info("Seeding demo dataset",
		slog.String("csv", csvPath),
		slog.String("parquet", parquetPath),
		slog.Int("rows", demo.NumRows()))

	if err := tabular.WriteCSV(csvPath, demo, tabular.WriteOptions{}); err != nil {
		logger.Error("Failed to write demo CSV",
			slog.String("path", csvPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The parquet copy is a convenience for columnar readers, the CSV
	// alone is enough for a working demo.
	if err := tabular.WriteParquet(parquetPath, demo, "uil_demo"); err != nil {
		logger.Warn("Failed to write demo parquet",
			slog.String("path", parquetPath),
			slog.String("error", err.Error()))
	}

	logger.Info("Demo dataset ready", slog.String("dir", *outputDir))
	fmt.Printf("Demo dataset ready: %s / %s\n", csvPath, parquetPath)
}

// demoTable builds the fixed per-line demo rows. Line totals and headways
// are sized to look plausible next to real feed data.
func demoTable() *tabular.Table {
	return tabular.New(
		[]string{"line", "passengers", "avg_headway_min"},
		[][]string{
			{"A", "120000", "3.5"},
			{"B", "95000", "4.0"},
			{"C", "87000", "4.2"},
			{"D", "110000", "3.8"},
			{"E", "76000", "5.0"},
			{"H", "64000", "4.6"},
		},
	)
}

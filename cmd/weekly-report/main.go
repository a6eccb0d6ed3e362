// The weekly-report command renders a Markdown summary of the last seven
// days of passenger counts, optionally joined with headway estimates, and
// drops it in the reports directory with a timestamped name.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"transitqc/internal/analytics"
	"transitqc/internal/config"
	"transitqc/internal/infrastructure"
	"transitqc/internal/tabular"
	"transitqc/internal/validation"
)

func main() {
	configPath := flag.String("config", "", "config file path (defaults to config.yaml, then configs/config.yaml)")
	passengersPath := flag.String("passengers", "", "passengers data file with fecha, linea, pax_total")
	headwayPath := flag.String("headway", "", "optional headway estimates file")
	outputDir := flag.String("output-dir", "", "report directory (defaults to the configured reports dir)")
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

	if *passengersPath == "" {
		logger.Error("No passengers file given, use -passengers")
		os.Exit(1)
	}
	if *outputDir == "" {
		*outputDir = cfg.Paths.ReportsDir
	}

	v := validation.NewInputValidator(logger)
	if err := v.ValidateDataFile(*passengersPath); err != nil {
		logger.Error("Input check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := v.ValidateOutputDir(*outputDir); err != nil {
		logger.Error("Output directory check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting weekly report",
		slog.String("passengers", *passengersPath),
		slog.String("headway", *headwayPath),
		slog.String("output_dir", *outputDir))

	passengers, err := tabular.Load(*passengersPath)
	if err != nil {
		logger.Error("Failed to load passengers",
			slog.String("input", *passengersPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	// A missing or unreadable headway table only costs the report its
	// headway section, so it degrades to a warning.
	var headway *tabular.Table
	if *headwayPath != "" {
		if err := v.ValidateDataFile(*headwayPath); err != nil {
			logger.Warn("Skipping headway section", slog.String("error", err.Error()))
		} else if headway, err = tabular.Load(*headwayPath); err != nil {
			logger.Warn("Skipping headway section", slog.String("error", err.Error()))
			headway = nil
		}
	}

	summary, err := analytics.BuildWeeklySummary(passengers, headway)
	if err != nil {
		logger.Error("Failed to build weekly summary", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reportPath := filepath.Join(*outputDir, analytics.ReportFilename(time.Now()))
	if err := os.WriteFile(reportPath, []byte(summary.Markdown()), 0644); err != nil {
		logger.Error("Failed to write report",
			slog.String("path", reportPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Weekly report written",
		slog.String("path", reportPath),
		slog.String("window_start", summary.Start.Format("2006-01-02")),
		slog.String("window_end", summary.End.Format("2006-01-02")),
		slog.Int("lines", len(summary.Passengers)))
	fmt.Printf("Weekly report for %s to %s -> %s\n",
		summary.Start.Format("2006-01-02"), summary.End.Format("2006-01-02"), reportPath)
}

// The headway-etl command turns dispatch counts into average headway
// estimates per line and month, writes them to CSV and checks the results
// against the plausible service range.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"transitqc/internal/config"
	"transitqc/internal/headway"
	"transitqc/internal/infrastructure"
	"transitqc/internal/quality"
	"transitqc/internal/tabular"
	"transitqc/internal/validation"
)

func main() {
	configPath := flag.String("config", "", "config file path (defaults to config.yaml, then configs/config.yaml)")
	monthlyPath := flag.String("monthly", "", "monthly dispatch file with year_month, line, dispatched_trains")
	dailyPath := flag.String("daily", "", "daily dispatch file with date, line, trains (used only without monthly data)")
	output := flag.String("output", "", "output CSV path (defaults to headway_estimates.csv under the processed dir)")
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

	if *monthlyPath == "" && *dailyPath == "" {
		logger.Error("No dispatch input given, use -monthly or -daily")
		os.Exit(1)
	}
	if *output == "" {
		*output = filepath.Join(cfg.Paths.Processed(), "headway_estimates.csv")
	}

	v := validation.NewInputValidator(logger)
	if err := v.ValidateOutputDir(filepath.Dir(*output)); err != nil {
		logger.Error("Output directory check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting headway estimation",
		slog.String("monthly", *monthlyPath),
		slog.String("daily", *dailyPath),
		slog.String("output", *output))

	monthly := loadOptional(logger, v, *monthlyPath)
	daily := loadOptional(logger, v, *dailyPath)

	estimates, err := headway.Build(monthly, daily)
	if err != nil {
		logger.Error("Failed to build estimates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	table := headway.ToTable(estimates)
	if err := tabular.WriteCSV(*output, table, tabular.WriteOptions{}); err != nil {
		logger.Error("Failed to write estimates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Sanity range: subway headways outside 1 to 20 minutes point at bad
	// dispatch counts rather than unusual service.
	lo, hi := 1.0, 20.0
	issues := quality.Validate(table, quality.Expectation{
		Name:            "headway_estimates",
		ExpectedColumns: []string{"year_month", "line", "avg_headway_min", "source"},
		NumericColumns:  []string{"avg_headway_min"},
		ValueRanges:     map[string]quality.Range{"avg_headway_min": {Min: &lo, Max: &hi}},
	})
	for _, issue := range issues {
		logger.Warn("Headway estimate issue", slog.String("issue", issue))
	}

	logger.Info("Headway estimates written",
		slog.String("output", *output),
		slog.Int("estimates", len(estimates)),
		slog.Int("issues", len(issues)))
	fmt.Printf("Wrote %d headway estimates -> %s\n", len(estimates), *output)
}

// loadOptional loads a dispatch table when a path was given, treating an
// unusable file as absent so the other source can still serve.
func loadOptional(logger *slog.Logger, v *validation.InputValidator, path string) *tabular.Table {
	if path == "" {
		return nil
	}
	if err := v.ValidateDataFile(path); err != nil {
		logger.Warn("Skipping dispatch input", slog.String("error", err.Error()))
		return nil
	}
	t, err := tabular.Load(path)
	if err != nil {
		logger.Warn("Skipping unreadable dispatch input",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}
	return t
}

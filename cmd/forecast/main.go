// The forecast command projects weekly passenger totals per line four weeks
// ahead using a linear trend over the observed weeks. Premetro ridership,
// which the turnstile feed does not cover, can be estimated from monthly
// dispatch counts and forecast alongside the subway lines.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"transitqc/internal/analytics"
	"transitqc/internal/config"
	"transitqc/internal/infrastructure"
	"transitqc/internal/tabular"
	"transitqc/internal/transit"
	"transitqc/internal/validation"
)

func main() {
	configPath := flag.String("config", "", "config file path (defaults to config.yaml, then configs/config.yaml)")
	input := flag.String("input", "", "passengers data file with fecha, linea, pax_total")
	dispatchPath := flag.String("dispatch", "", "optional monthly dispatch file used to estimate premetro ridership")
	horizon := flag.Int("horizon", analytics.DefaultHorizonWeeks, "forecast horizon in weeks")
	output := flag.String("output", "", "output CSV path (defaults to passengers_forecast_weekly.csv under the processed dir)")
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

	if *input == "" {
		logger.Error("No passengers file given, use -input")
		os.Exit(1)
	}
	if *output == "" {
		*output = filepath.Join(cfg.Paths.Processed(), "passengers_forecast_weekly.csv")
	}

	v := validation.NewInputValidator(logger)
	if err := v.ValidateDataFile(*input); err != nil {
		logger.Error("Input check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := v.ValidateOutputDir(filepath.Dir(*output)); err != nil {
		logger.Error("Output directory check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting passenger forecast",
		slog.String("input", *input),
		slog.String("dispatch", *dispatchPath),
		slog.Int("horizon_weeks", *horizon),
		slog.String("output", *output))

	passengers, err := tabular.Load(*input)
	if err != nil {
		logger.Error("Failed to load passengers",
			slog.String("input", *input),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	byLine, err := analytics.AggregateWeekly(passengers)
	if err != nil {
		logger.Error("Failed to aggregate weekly totals", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Turnstiles do not cover the premetro, so its weekly series comes from
	// dispatch counts when available, replacing any partial turnstile rows.
	if *dispatchPath != "" {
		if err := v.ValidateDataFile(*dispatchPath); err != nil {
			logger.Warn("Skipping premetro estimation", slog.String("error", err.Error()))
		} else if dispatch, err := tabular.Load(*dispatchPath); err != nil {
			logger.Warn("Skipping premetro estimation, dispatch unreadable",
				slog.String("error", err.Error()))
		} else if premetro, err := analytics.EstimatePremetroWeekly(passengers, dispatch); err != nil {
			logger.Warn("Skipping premetro estimation", slog.String("error", err.Error()))
		} else {
			byLine[transit.PremetroLine] = premetro
			logger.Info("Estimated premetro weekly totals", slog.Int("weeks", len(premetro)))
		}
	}

	points := analytics.Forecast(byLine, *horizon)
	if len(points) == 0 {
		logger.Error("No lines with data to forecast")
		os.Exit(1)
	}

	table := analytics.ForecastTable(points)
	if err := tabular.WriteCSV(*output, table, tabular.WriteOptions{}); err != nil {
		logger.Error("Failed to write forecast", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Forecast written",
		slog.String("output", *output),
		slog.Int("lines", len(byLine)),
		slog.Int("points", len(points)))
	fmt.Printf("Forecast %d lines, %d points -> %s\n", len(byLine), len(points), *output)
}

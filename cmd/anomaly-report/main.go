// The anomaly-report command buckets a ridership table into a time series,
// scores every point against its rolling baseline and writes the scored
// series as a CSV report.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"transitqc/internal/anomaly"
	"transitqc/internal/config"
	"transitqc/internal/infrastructure"
	"transitqc/internal/tabular"
	"transitqc/internal/validation"
)

func main() {
	def := anomaly.DefaultConfig()

	configPath := flag.String("config", "", "config file path (defaults to config.yaml, then configs/config.yaml)")
	input := flag.String("input", "", "ridership data file (.csv, .xlsx or .parquet)")
	output := flag.String("output", "", "output CSV path (defaults to anomaly_report.csv under the reports dir)")
	dateCol := flag.String("date-col", def.DateColumn, "date column name")
	valueCol := flag.String("value-col", def.ValueColumn, "value column name")
	stationCol := flag.String("station-col", def.StationColumn, "station column name, scored per station when present")
	freq := flag.String("freq", def.Frequency, "bucket frequency: D, H or W")
	window := flag.Int("window", def.Window, "rolling window size in observations")
	zThreshold := flag.Float64("z-threshold", def.ZThreshold, "absolute z-score that flags a point")
	minPeriods := flag.Int("min-periods", def.MinPeriods, "observations required before scoring")
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
		logger.Error("No input file given, use -input")
		os.Exit(1)
	}
	if *output == "" {
		*output = filepath.Join(cfg.Paths.ReportsDir, "anomaly_report.csv")
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

	logger.Info("Starting anomaly scoring",
		slog.String("input", *input),
		slog.String("output", *output),
		slog.String("frequency", *freq),
		slog.Int("window", *window),
		slog.Float64("z_threshold", *zThreshold))

	table, err := tabular.Load(*input)
	if err != nil {
		logger.Error("Failed to load input",
			slog.String("input", *input),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	scoringCfg := anomaly.Config{
		DateColumn:    *dateCol,
		ValueColumn:   *valueCol,
		StationColumn: *stationCol,
		Frequency:     *freq,
		Window:        *window,
		ZThreshold:    *zThreshold,
		MinPeriods:    *minPeriods,
	}

	series, err := anomaly.PrepareSeries(table, scoringCfg)
	if err != nil {
		logger.Error("Failed to prepare series", slog.String("error", err.Error()))
		os.Exit(1)
	}

	scored := anomaly.DetectAnomalies(series, scoringCfg)
	report := scoredTable(scored, series.ByStation, *stationCol, *valueCol, *freq)

	if err := tabular.WriteCSV(*output, report, tabular.WriteOptions{}); err != nil {
		logger.Error("Failed to write report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	anomalies := 0
	for _, p := range scored {
		if p.IsAnomaly {
			anomalies++
		}
	}

	logger.Info("Anomaly report written",
		slog.String("output", *output),
		slog.Int("points", len(scored)),
		slog.Int("anomalies", anomalies))
	fmt.Printf("Scored %d points (%d anomalies) -> %s\n", len(scored), anomalies, *output)
}

// scoredTable renders scored points with the same column names the series
// was built from.
func scoredTable(scored []anomaly.ScoredPoint, byStation bool, stationCol, valueCol, freq string) *tabular.Table {
	columns := []string{"date"}
	if byStation {
		columns = append(columns, stationCol)
	}
	columns = append(columns, valueCol, "rolling_mean", "rolling_std", "z_score", "is_anomaly", "anomaly_type")

	rows := make([][]string, len(scored))
	for i, p := range scored {
		row := []string{formatBucket(p.Bucket, freq)}
		if byStation {
			row = append(row, p.Station)
		}
		row = append(row,
			tabular.FormatNumber(p.Value),
			tabular.FormatNumber(p.RollingMean),
			tabular.FormatNumber(p.RollingStd),
			tabular.FormatNumber(p.ZScore),
			tabular.FormatBool(p.IsAnomaly),
			p.Type,
		)
		rows[i] = row
	}
	return tabular.New(columns, rows)
}

func formatBucket(t time.Time, freq string) string {
	if freq == "H" || freq == "h" {
		return t.Format("2006-01-02 15:04")
	}
	return t.Format("2006-01-02")
}

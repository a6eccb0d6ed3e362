package quality

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"transitqc/internal/tabular"
)

// Dataset pairs a source file with the expectation used to judge it.
type Dataset struct {
	Source      string
	Expectation Expectation
	ZThreshold  float64 // 0 means DefaultZThreshold
}

// Runner executes the cleaning and validation pipeline for datasets and
// writes the cleaned outputs under the processed directory.
type Runner struct {
	logger       *slog.Logger
	processedDir string
	workers      int
}

// RunnerConfig holds configuration options for the Runner.
type RunnerConfig struct {
	ProcessedDir string // Directory for cleaned CSV and parquet outputs
	Workers      int    // Maximum datasets processed concurrently
}

// NewRunner creates a pipeline runner with the given configuration.
func NewRunner(logger *slog.Logger, config RunnerConfig) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Workers <= 0 {
		config.Workers = 4
	}
	return &Runner{
		logger:       logger,
		processedDir: config.ProcessedDir,
		workers:      config.Workers,
	}
}

// Run loads one dataset, cleans it, validates it against its expectation,
// scans its numeric columns for outliers and saves the cleaned table.
// The CSV output is required; a parquet failure is logged and tolerated.
func (r *Runner) Run(ctx context.Context, ds Dataset) (*Report, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	name := ds.Expectation.Name

	raw, err := tabular.Load(ds.Source)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", name, err)
	}
	rowsBefore := raw.NumRows()

	clean := BasicClean(raw, ds.Expectation)
	issues := Validate(clean, ds.Expectation)

	threshold := ds.ZThreshold
	if threshold == 0 {
		threshold = DefaultZThreshold
	}
	flagged := DetectNumericAnomalies(clean, ds.Expectation.NumericColumns, threshold)

	var anomalyColumns []string
	for _, col := range ds.Expectation.NumericColumns {
		if _, ok := flagged[col]; ok {
			anomalyColumns = append(anomalyColumns, col)
		}
	}

	report := &Report{
		DatasetName:    name,
		RowsBefore:     rowsBefore,
		RowsAfter:      clean.NumRows(),
		ColumnCount:    clean.NumColumns(),
		Issues:         issues,
		AnomalyColumns: anomalyColumns,
	}

	csvPath := filepath.Join(r.processedDir, name+"_clean.csv")
	if err := tabular.WriteCSV(csvPath, clean, tabular.WriteOptions{}); err != nil {
		return nil, fmt.Errorf("save cleaned dataset %s: %w", name, err)
	}

	parquetPath := filepath.Join(r.processedDir, name+"_clean.parquet")
	if err := tabular.WriteParquet(parquetPath, clean, name); err != nil {
		r.logger.WarnContext(ctx, "could not save parquet file",
			slog.String("dataset", name),
			slog.String("path", parquetPath),
			slog.String("error", err.Error()))
	}

	if report.IsAcceptable() {
		r.logger.InfoContext(ctx, "dataset passed validation",
			slog.String("dataset", name),
			slog.Int("rows", report.RowsAfter),
			slog.Int("anomaly_columns", len(report.AnomalyColumns)))
	} else {
		r.logger.WarnContext(ctx, "dataset has validation issues",
			slog.String("dataset", name),
			slog.Int("issue_count", len(issues)))
	}

	return report, nil
}

// RunAll processes datasets concurrently, bounded by the worker limit.
// Every dataset runs to completion regardless of failures elsewhere;
// the returned slice is aligned with the input and holds nil for
// datasets whose run failed. The first failure is returned after all
// runs finish.
func (r *Runner) RunAll(ctx context.Context, datasets []Dataset) ([]*Report, error) {
	results := make([]*Report, len(datasets))

	var g errgroup.Group
	g.SetLimit(r.workers)

	for i, ds := range datasets {
		g.Go(func() error {
			report, err := r.Run(ctx, ds)
			if err != nil {
				r.logger.ErrorContext(ctx, "dataset pipeline failed",
					slog.String("dataset", ds.Expectation.Name),
					slog.String("error", err.Error()))
				return err
			}
			results[i] = report
			return nil
		})
	}

	return results, g.Wait()
}

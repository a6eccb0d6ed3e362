// The processor runs the data-quality pipeline over every configured
// dataset: load, clean, validate, scan for numeric outliers, persist the
// cleaned tables, write one quality report per dataset, and record the
// ingestion in the run registry.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"transitqc/internal/config"
	"transitqc/internal/files"
	"transitqc/internal/infrastructure"
	"transitqc/internal/quality"
	"transitqc/internal/registry"
	"transitqc/internal/tabular"
	"transitqc/internal/validation"
)

func main() {
	configPath := flag.String("config", "", "config file path (defaults to config.yaml, then configs/config.yaml)")
	specsPath := flag.String("specs", "", "dataset spec file (defaults to the configured specs file)")
	runDate := flag.String("run-date", time.Now().Format("2006-01-02"), "run date in YYYY-MM-DD format")
	limitRows := flag.Int("limit-rows", -1, "cap on rows counted per ingestion run, sampled deterministically (-1 uses the configured limit)")
	modelTag := flag.String("model-tag", "", "tag recorded with each ingestion run (defaults to the configured tag)")
	insertDemo := flag.Bool("insert-demo-incidents", false, "insert the demo incidents to exercise the incident log")
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

	if err := cfg.Paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create data directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *specsPath == "" {
		*specsPath = cfg.Paths.SpecsFile
	}
	if *limitRows < 0 {
		*limitRows = cfg.Pipeline.LimitRows
	}
	if *modelTag == "" {
		*modelTag = cfg.Pipeline.ModelTag
	}

	logger.Info("Starting data quality pipeline",
		slog.String("run_date", *runDate),
		slog.String("specs_file", *specsPath),
		slog.Int("limit_rows", *limitRows),
		slog.String("model_tag", *modelTag))

	specs, err := config.LoadDatasetSpecs(*specsPath)
	if err != nil {
		logger.Error("Failed to load dataset specs",
			slog.String("specs_file", *specsPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(specs) == 0 {
		logger.Warn("No datasets configured, nothing to do",
			slog.String("specs_file", *specsPath))
		return
	}

	v := validation.NewInputValidator(logger)
	for _, dir := range []string{cfg.Paths.Processed(), cfg.Paths.ReportsDir} {
		if err := v.ValidateOutputDir(dir); err != nil {
			logger.Error("Output directory check failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// A dataset source may name a file, a directory (newest data file
	// wins), or a glob pattern, all relative to the raw dir.
	discovery := files.NewDiscovery(cfg.Paths.Raw())
	var datasets []quality.Dataset
	resolveFailed := false
	for _, spec := range specs {
		source, err := discovery.Resolve(spec.Source)
		if err != nil {
			logger.Error("Could not resolve dataset source, skipping",
				slog.String("dataset", spec.Expectation.Name),
				slog.String("source", spec.Source),
				slog.String("error", err.Error()))
			resolveFailed = true
			continue
		}
		threshold := spec.ZThreshold
		if threshold == 0 {
			threshold = cfg.Pipeline.ZThreshold
		}
		datasets = append(datasets, quality.Dataset{
			Source:      source,
			Expectation: spec.Expectation,
			ZThreshold:  threshold,
		})
	}

	ctx := context.Background()
	runner := quality.NewRunner(logger, quality.RunnerConfig{
		ProcessedDir: cfg.Paths.Processed(),
		Workers:      cfg.Pipeline.Workers,
	})
	reports, runErr := runner.RunAll(ctx, datasets)

	store, err := registry.Open(cfg.Registry.Path)
	if err != nil {
		logger.Error("Failed to open run registry",
			slog.String("path", cfg.Registry.Path),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	processed, withIssues := 0, 0
	for i, report := range reports {
		if report == nil {
			continue
		}
		processed++
		if !report.IsAcceptable() {
			withIssues++
		}

		reportPath := filepath.Join(cfg.Paths.ReportsDir, report.DatasetName+"_quality_report.json")
		if err := report.WriteJSON(reportPath); err != nil {
			logger.Error("Failed to write quality report",
				slog.String("dataset", report.DatasetName),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		rows, err := countIngestedRows(cfg.Paths.Processed(), report.DatasetName, *limitRows, cfg.Pipeline.SampleSeed)
		if err != nil {
			logger.Error("Failed to count ingested rows",
				slog.String("dataset", report.DatasetName),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		run := registry.Run{
			RunDate:    *runDate,
			SourceFile: datasets[i].Source,
			RowsLoaded: rows,
			ModelTag:   *modelTag,
		}
		if err := store.RecordRun(ctx, run); err != nil {
			logger.Error("Failed to record ingestion run",
				slog.String("dataset", report.DatasetName),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("Recorded ingestion run",
			slog.String("dataset", report.DatasetName),
			slog.String("report", reportPath),
			slog.Int("rows_loaded", rows),
			slog.Bool("acceptable", report.IsAcceptable()))
	}

	if *insertDemo {
		incidents := registry.DemoIncidents(*runDate, time.Now())
		if err := store.InsertIncidents(ctx, incidents); err != nil {
			logger.Error("Failed to insert demo incidents", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Inserted demo incidents", slog.Int("count", len(incidents)))
	}

	fmt.Printf("Processed %d of %d datasets (%d with issues)\n", processed, len(specs), withIssues)
	if runErr != nil || resolveFailed {
		logger.Error("Pipeline finished with failures")
		os.Exit(1)
	}
	logger.Info("Pipeline completed",
		slog.Int("datasets", processed),
		slog.Int("with_issues", withIssues))
}

// countIngestedRows reloads the cleaned CSV and counts the rows an ingestion
// would carry, after the deterministic sample cap.
func countIngestedRows(processedDir, name string, limit int, seed int64) (int, error) {
	cleanPath := filepath.Join(processedDir, name+"_clean.csv")
	t, err := tabular.Load(cleanPath)
	if err != nil {
		return 0, fmt.Errorf("load cleaned dataset %s: %w", name, err)
	}
	return tabular.SampleRows(t, limit, seed).NumRows(), nil
}

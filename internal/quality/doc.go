// Package quality implements schema validation and anomaly screening for
// ridership datasets. It consolidates cleaning, expectation checking, and
// z-score outlier detection into a single pipeline that produces per-dataset
// quality reports.
//
// # Architecture
//
// The package is organized around three operations:
//
// 1. BasicClean: Normalizes headers, drops duplicate rows and trims cells
// 2. Validate: Checks a cleaned table against an Expectation
// 3. DetectNumericAnomalies: Flags rows far from a column's mean
//
// Runner ties them together, loading each dataset from disk, writing the
// cleaned outputs and returning a Report suitable for JSON serialization.
//
// # Usage
//
// Single dataset:
//
//	runner := quality.NewRunner(logger, quality.RunnerConfig{ProcessedDir: dir})
//	report, err := runner.Run(ctx, quality.Dataset{
//	    Source:      "data/raw/molinetes.csv",
//	    Expectation: exp,
//	})
//
// Several datasets, bounded concurrency:
//
//	reports, err := runner.RunAll(ctx, datasets)
//
// # Determinism
//
// Validation issues are emitted in a fixed order so repeated runs over the
// same input produce identical reports. Constraints declared as lists are
// checked in declaration order; constraints declared as maps are checked in
// sorted key order.
package quality

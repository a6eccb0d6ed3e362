// The inspect command describes data files on the console: row and column
// counts, a rough per-column type, and the first few rows. It never guesses
// what a column means, it only reports what is present. Directory arguments
// expand to every data file inside them.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"transitqc/internal/config"
	"transitqc/internal/files"
	"transitqc/internal/infrastructure"
	"transitqc/internal/tabular"
)

// typeSampleSize caps how many non-empty cells are examined per column.
const typeSampleSize = 50

func main() {
	configPath := flag.String("config", "", "config file path (defaults to config.yaml, then configs/config.yaml)")
	previewRows := flag.Int("rows", 5, "number of rows to preview per file")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-rows n] <file-or-dir> ...")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	targets := expandTargets(logger, flag.Args())

	inspected := 0
	for _, path := range targets {
		if inspectFile(logger, path, *previewRows) {
			inspected++
		}
	}

	fmt.Printf("Inspected %d of %d files\n", inspected, len(targets))
	if inspected == 0 {
		os.Exit(1)
	}
}

// expandTargets flattens the argument list, replacing each directory with
// the data files it contains. Unreadable directories are reported and
// contribute nothing.
func expandTargets(logger *slog.Logger, args []string) []string {
	discovery := files.NewDiscovery("")

	var targets []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			found, err := discovery.FindDataFiles(arg)
			if err != nil {
				logger.Warn("Cannot list directory", slog.String("dir", arg), slog.String("error", err.Error()))
				fmt.Printf("%s: cannot list directory: %v\n", arg, err)
				continue
			}
			if len(found) == 0 {
				fmt.Printf("%s: no data files\n", arg)
				continue
			}
			for _, f := range found {
				targets = append(targets, f.Path)
			}
			continue
		}
		targets = append(targets, arg)
	}
	return targets
}

// inspectFile prints the shape, column types and first rows of one file,
// reporting true when the file could be read.
func inspectFile(logger *slog.Logger, path string, previewRows int) bool {
	t, err := tabular.Load(path)
	if err != nil {
		logger.Warn("Cannot read file", slog.String("path", path), slog.String("error", err.Error()))
		fmt.Printf("%s: cannot read: %v\n", path, err)
		return false
	}

	fmt.Printf("=== %s ===\n", path)
	fmt.Printf("rows: %d  columns: %d\n", t.NumRows(), t.NumColumns())
	for _, col := range t.Columns {
		fmt.Printf("  %-24s %s\n", col, inferColumnType(t.Column(col)))
	}

	n := previewRows
	if n > t.NumRows() {
		n = t.NumRows()
	}
	if n > 0 {
		fmt.Printf("first %d rows:\n", n)
		fmt.Printf("  %s\n", strings.Join(t.Columns, " | "))
		for i := 0; i < n; i++ {
			cells := make([]string, len(t.Columns))
			for j, col := range t.Columns {
				cells[j] = t.Cell(i, col)
			}
			fmt.Printf("  %s\n", strings.Join(cells, " | "))
		}
	}
	fmt.Println()
	return true
}

// inferColumnType classifies a column from a sample of its non-empty cells.
// A column is numeric or date only when every sampled cell parses as such;
// anything mixed is text, and a column with no values at all is empty.
func inferColumnType(cells []string) string {
	sampled, numeric, date := 0, 0, 0
	for _, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		if _, ok := tabular.ParseNumber(cell); ok {
			numeric++
		} else if _, ok := tabular.ParseDate(cell); ok {
			date++
		}
		sampled++
		if sampled == typeSampleSize {
			break
		}
	}
	switch {
	case sampled == 0:
		return "empty"
	case numeric == sampled:
		return "numeric"
	case date == sampled:
		return "date"
	default:
		return "text"
	}
}

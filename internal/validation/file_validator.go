// Package validation checks input files and output directories before the
// commands touch them, so bad paths fail with a clear message instead of a
// loader error halfway through a run.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"transitqc/internal/files"
)

// InputValidator validates the files and directories the commands operate on.
type InputValidator struct {
	logger *slog.Logger
}

// NewInputValidator creates a validator. A nil logger falls back to the
// slog default.
func NewInputValidator(logger *slog.Logger) *InputValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &InputValidator{logger: logger}
}

// ValidateDataFile checks that path names an existing, readable, non-empty
// file with a loadable extension (.csv, .xlsx, .parquet).
func (v *InputValidator) ValidateDataFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("data file does not exist",
			slog.String("file", path))
		return fmt.Errorf("data file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("failed to stat data file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("stat data file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("data path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() == 0 {
		v.logger.Error("data file is empty",
			slog.String("file", path))
		return fmt.Errorf("data file %s is empty", path)
	}

	if !files.IsDataFile(path) {
		ext := strings.ToLower(filepath.Ext(path))
		v.logger.Error("data file has an unsupported extension",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("data file %s has unsupported extension %q", path, ext)
	}

	// Excel leaves ~$ lock files next to open workbooks.
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("skipping temporary spreadsheet lock file",
			slog.String("file", path))
		return fmt.Errorf("data file %s is a temporary lock file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("data file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("data file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("data file validated",
		slog.String("file", path),
		slog.Int64("size_bytes", info.Size()))
	return nil
}

// ValidateOutputDir ensures dir exists (creating it if needed) and is
// writable.
func (v *InputValidator) ValidateOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	file, err := os.Create(probe)
	if err != nil {
		v.logger.Error("output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(probe)

	return nil
}

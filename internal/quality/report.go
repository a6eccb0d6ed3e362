package quality

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Report summarizes one validation run. Created fresh per run and immutable
// once returned. Anomaly columns are informational; only issues make a
// report unacceptable.
type Report struct {
	DatasetName    string   `json:"dataset_name"`
	RowsBefore     int      `json:"n_rows_before"`
	RowsAfter      int      `json:"n_rows_after"`
	ColumnCount    int      `json:"n_columns"`
	Issues         []string `json:"issues"`
	AnomalyColumns []string `json:"anomaly_columns"`
}

// IsAcceptable reports whether the run found no issues.
func (r *Report) IsAcceptable() bool {
	return len(r.Issues) == 0
}

// ToMap flattens the report for serialization. The field names are part of
// the interchange contract with downstream consumers.
func (r *Report) ToMap() map[string]any {
	issues := r.Issues
	if issues == nil {
		issues = []string{}
	}
	anomalyCols := r.AnomalyColumns
	if anomalyCols == nil {
		anomalyCols = []string{}
	}
	return map[string]any{
		"dataset_name":    r.DatasetName,
		"n_rows_before":   r.RowsBefore,
		"n_rows_after":    r.RowsAfter,
		"n_columns":       r.ColumnCount,
		"issues":          issues,
		"anomaly_columns": anomalyCols,
		"is_acceptable":   r.IsAcceptable(),
	}
}

// WriteJSON persists the report mapping for downstream ingestion.
func (r *Report) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	data, err := json.MarshalIndent(r.ToMap(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

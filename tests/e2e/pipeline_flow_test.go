package e2e

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"transitqc/internal/anomaly"
	"transitqc/internal/quality"
	"transitqc/internal/registry"
	"transitqc/internal/tabular"
)

// rawTurnstileCSV is a legacy-style export: messy headers, one duplicated
// row, a Latin-1 encoded station name, and a ridership spike on the last
// day. The 0xF3 byte is invalid UTF-8 and forces the fallback decode.
const rawTurnstileCSV = " Fecha ,Linea,Estacion,Pax Total\n" +
	"2024-01-01,A,Constituci\xf3n,1000\n" +
	"2024-01-01,A,Constituci\xf3n,1000\n" +
	"2024-01-02,A,Constituci\xf3n,1010\n" +
	"2024-01-03,A,Constituci\xf3n,990\n" +
	"2024-01-04,A,Constituci\xf3n,1005\n" +
	"2024-01-05,A,Constituci\xf3n,995\n" +
	"2024-01-06,A,Constituci\xf3n,1000\n" +
	"2024-01-07,A,Constituci\xf3n,1010\n" +
	"2024-01-08,A,Constituci\xf3n,990\n" +
	"2024-01-09,A,Constituci\xf3n,1000\n" +
	"2024-01-10,A,Constituci\xf3n,5000\n"

// PipelineFlowTestSuite drives the full path a daily run takes: raw feed in,
// cleaned outputs and a quality report out, anomaly scoring over the cleaned
// feed, and the run recorded in the registry.
type PipelineFlowTestSuite struct {
	suite.Suite
	tempDir      string
	rawPath      string
	processedDir string
	reportsDir   string
}

func (s *PipelineFlowTestSuite) SetupSuite() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "pipeline_e2e_*")
	s.Require().NoError(err)

	s.rawPath = filepath.Join(s.tempDir, "raw", "molinetes_2024.csv")
	s.processedDir = filepath.Join(s.tempDir, "processed")
	s.reportsDir = filepath.Join(s.tempDir, "reports")

	s.Require().NoError(os.MkdirAll(filepath.Dir(s.rawPath), 0755))
	s.Require().NoError(os.WriteFile(s.rawPath, []byte(rawTurnstileCSV), 0644))
}

func (s *PipelineFlowTestSuite) TearDownSuite() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

func (s *PipelineFlowTestSuite) expectation() quality.Expectation {
	return quality.Expectation{
		Name:            "molinetes",
		ExpectedColumns: []string{"fecha", "linea", "estacion", "pax_total"},
		NonNullColumns:  []string{"fecha", "linea"},
		NumericColumns:  []string{"pax_total"},
		AllowedValues:   map[string][]string{"linea": {"A", "B", "C", "D", "E", "H"}},
		UniqueKeys:      [][]string{{"fecha", "linea", "estacion"}},
		MinRows:         5,
	}
}

func (s *PipelineFlowTestSuite) runPipeline() *quality.Report {
	runner := quality.NewRunner(slog.Default(), quality.RunnerConfig{
		ProcessedDir: s.processedDir,
	})
	report, err := runner.Run(context.Background(), quality.Dataset{
		Source:      s.rawPath,
		Expectation: s.expectation(),
		ZThreshold:  2.5,
	})
	s.Require().NoError(err)
	return report
}

// TestCleanedOutputsMatchReport checks the round-trip property: a conforming
// raw feed yields an acceptable report whose row counts match the files on
// disk, with the duplicate dropped and the encoding repaired.
func (s *PipelineFlowTestSuite) TestCleanedOutputsMatchReport() {
	report := s.runPipeline()

	s.Equal("molinetes", report.DatasetName)
	s.Equal(11, report.RowsBefore)
	s.Equal(10, report.RowsAfter)
	s.True(report.IsAcceptable())
	s.Equal([]string{"pax_total"}, report.AnomalyColumns)

	clean, err := tabular.ReadCSV(filepath.Join(s.processedDir, "molinetes_clean.csv"))
	s.Require().NoError(err)
	s.Equal([]string{"fecha", "linea", "estacion", "pax_total"}, clean.Columns)
	s.Equal(report.RowsAfter, clean.NumRows())
	s.Equal("Constitución", clean.Cell(0, "estacion"))

	_, err = os.Stat(filepath.Join(s.processedDir, "molinetes_clean.parquet"))
	s.NoError(err)
}

// TestReportJSONContract pins the serialized field names downstream
// consumers read.
func (s *PipelineFlowTestSuite) TestReportJSONContract() {
	report := s.runPipeline()

	reportPath := filepath.Join(s.reportsDir, "molinetes_quality_report.json")
	s.Require().NoError(report.WriteJSON(reportPath))

	data, err := os.ReadFile(reportPath)
	s.Require().NoError(err)

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(data, &decoded))
	for _, key := range []string{
		"dataset_name", "n_rows_before", "n_rows_after",
		"n_columns", "issues", "anomaly_columns", "is_acceptable",
	} {
		s.Contains(decoded, key)
	}
	s.Equal(true, decoded["is_acceptable"])
	s.Equal(float64(10), decoded["n_rows_after"])
}

// TestAnomalyScoringOverCleanedFeed reloads the cleaned CSV and runs the
// rolling detector over it, the way the reporting command does.
func (s *PipelineFlowTestSuite) TestAnomalyScoringOverCleanedFeed() {
	s.runPipeline()

	clean, err := tabular.ReadCSV(filepath.Join(s.processedDir, "molinetes_clean.csv"))
	s.Require().NoError(err)

	cfg := anomaly.DefaultConfig()
	cfg.Window = 5
	cfg.MinPeriods = 3
	cfg.ZThreshold = 1.5

	series, err := anomaly.PrepareSeries(clean, cfg)
	s.Require().NoError(err)
	s.Len(series.Points, 10)
	s.True(series.ByStation)

	scored := anomaly.DetectAnomalies(series, cfg)
	s.Require().Len(scored, 10)

	var flagged []anomaly.ScoredPoint
	for _, p := range scored {
		if p.IsAnomaly {
			flagged = append(flagged, p)
		}
	}
	s.Require().Len(flagged, 1)
	s.Equal("spike", flagged[0].Type)
	s.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), flagged[0].Bucket)
	s.Equal(5000.0, flagged[0].Value)
}

// TestRegistryRecordsRunAndIncidents stores the run the way the processor
// does and reads it back along with the demo incidents.
func (s *PipelineFlowTestSuite) TestRegistryRecordsRunAndIncidents() {
	report := s.runPipeline()

	store, err := registry.Open(filepath.Join(s.tempDir, "logs", "registry.db"))
	s.Require().NoError(err)
	defer store.Close()

	ctx := context.Background()
	s.Require().NoError(store.RecordRun(ctx, registry.Run{
		RunDate:    "2024-01-10",
		SourceFile: s.rawPath,
		RowsLoaded: report.RowsAfter,
		ModelTag:   "ridership-v1",
	}))
	s.Require().NoError(store.InsertIncidents(ctx, registry.DemoIncidents("2024-01-10", time.Now())))

	runs, err := store.Runs(ctx)
	s.Require().NoError(err)
	s.Require().Len(runs, 1)
	s.Contains(runs[0].RunID, "run_2024-01-10_")
	s.Equal(10, runs[0].RowsLoaded)
	s.Equal("ridership-v1", runs[0].ModelTag)

	incidents, err := store.Incidents(ctx)
	s.Require().NoError(err)
	s.Require().Len(incidents, 2)
	s.Equal(registry.TeamInfrastructure, incidents[0].TargetTeam)
	s.Equal(registry.TeamOperationsControl, incidents[1].TargetTeam)
}

func TestPipelineFlowTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineFlowTestSuite))
}

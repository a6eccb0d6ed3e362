package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"transitqc/internal/quality"
)

// DatasetSpec binds a source file to the expectation used to validate it.
// A zero ZThreshold means the pipeline default applies.
type DatasetSpec struct {
	Source      string              `yaml:"source" validate:"required"`
	ZThreshold  float64             `yaml:"z_threshold"`
	Expectation quality.Expectation `yaml:"expectation"`
}

type specsFile struct {
	Datasets []DatasetSpec `yaml:"datasets" validate:"required,min=1,dive"`
}

// LoadDatasetSpecs reads the dataset spec file. Every entry needs a source
// and a named expectation.
func LoadDatasetSpecs(path string) ([]DatasetSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset specs %s: %w", path, err)
	}

	var file specsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse dataset specs %s: %w", path, err)
	}

	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("dataset specs validation failed: %w", err)
	}
	for i, spec := range file.Datasets {
		if spec.Expectation.Name == "" {
			return nil, fmt.Errorf("dataset spec %d (%s) has no expectation name", i, spec.Source)
		}
	}
	return file.Datasets, nil
}

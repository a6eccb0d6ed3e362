package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Registry RegistryConfig `yaml:"registry" envconfig:"REGISTRY"`
}

// LoggingConfig controls the slog setup shared by every command.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required"`
}

// PathsConfig locates the data directories. RawDir and ProcessedDir default
// to subdirectories of DataDir when unset.
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	RawDir       string `yaml:"raw_dir" envconfig:"RAW_DIR"`
	ProcessedDir string `yaml:"processed_dir" envconfig:"PROCESSED_DIR"`
	ReportsDir   string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	SpecsFile    string `yaml:"specs_file" envconfig:"SPECS_FILE" validate:"required"`
}

// Raw returns the directory holding raw input datasets.
func (p PathsConfig) Raw() string {
	if p.RawDir != "" {
		return p.RawDir
	}
	return filepath.Join(p.DataDir, "raw")
}

// Processed returns the directory cleaned outputs are written to.
func (p PathsConfig) Processed() string {
	if p.ProcessedDir != "" {
		return p.ProcessedDir
	}
	return filepath.Join(p.DataDir, "processed")
}

// EnsureDirectories creates the data and report directories.
func (p PathsConfig) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.Raw(), p.Processed(), p.ReportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// PipelineConfig tunes the validation pipeline and ingestion sampling.
type PipelineConfig struct {
	Workers    int     `yaml:"workers" envconfig:"WORKERS" validate:"min=1"`
	ZThreshold float64 `yaml:"z_threshold" envconfig:"Z_THRESHOLD" validate:"gt=0"`
	LimitRows  int     `yaml:"limit_rows" envconfig:"LIMIT_ROWS" validate:"min=0"`
	SampleSeed int64   `yaml:"sample_seed" envconfig:"SAMPLE_SEED"`
	ModelTag   string  `yaml:"model_tag" envconfig:"MODEL_TAG"`
}

// RegistryConfig locates the run/incident registry database.
type RegistryConfig struct {
	Path string `yaml:"path" envconfig:"PATH" validate:"required"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/transitqc.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "reports",
			SpecsFile:  "configs/datasets.yaml",
		},
		Pipeline: PipelineConfig{
			Workers:    4,
			ZThreshold: 4.0,
			LimitRows:  200000,
			SampleSeed: 42,
			ModelTag:   "ridership-v1",
		},
		Registry: RegistryConfig{
			Path: filepath.Join("data", "logs", "transitqc.db"),
		},
	}
}

// Load builds the configuration with the usual precedence: built-in
// defaults, then the YAML file (the given path, or the first conventional
// location found when path is empty), then TQC_* environment variables.
// A .env file in the working directory is read first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("TQC", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// validate checks the assembled configuration.
func (c *Config) validate() error {
	return validator.New().Struct(c)
}

// findConfigFile checks the conventional config file locations.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

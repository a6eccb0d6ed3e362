// Package config loads the application configuration with defaults, an
// optional YAML file, and TQC_* environment variable overrides, in that
// order of precedence. It also loads the dataset spec file that drives the
// validation pipeline.
package config

// Package tabular provides the string-celled table model shared by the
// data-quality and anomaly-scoring pipelines, together with readers and
// writers for the supported storage formats.
//
// Tables are immutable by convention: every transform returns a new table.
// A missing value is the empty string. Cell interpretation helpers
// (ParseNumber, CoerceNumber, ParseDate) centralize the lenient parsing
// rules used across the pipelines.
//
// Supported formats: CSV (UTF-8 with Latin-1 fallback on read, optional BOM
// on write), XLSX (first sheet), and Parquet (optional string columns).
package tabular

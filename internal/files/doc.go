// Package files locates data files under the configured data directories.
//
// Discovery finds loadable files (CSV, XLSX, Parquet) in a directory, filters
// by glob pattern, and resolves dataset sources that name a directory or a
// pattern to the most recent concrete file.
//
// Example usage:
//
//	discovery := files.NewDiscovery(cfg.Paths.DataDir)
//
//	found, err := discovery.FindDataFiles("raw")
//
//	path, err := discovery.Resolve("raw/molinetes_*.csv")
package files

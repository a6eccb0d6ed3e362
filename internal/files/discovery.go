package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Info describes a discovered data file.
type Info struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// DataExtensions lists the file extensions the loaders understand.
var DataExtensions = []string{".csv", ".xlsx", ".parquet"}

// IsDataFile reports whether the file name carries a loadable extension.
func IsDataFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range DataExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// Discovery locates data files under a base directory. Relative paths passed
// to its methods are resolved against the base; absolute paths are used
// as-is.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery instance rooted at basePath. An empty
// base leaves relative paths untouched.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindDataFiles returns the loadable data files directly under dir, sorted
// by modification time (oldest first).
func (d *Discovery) FindDataFiles(dir string) ([]Info, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", fullPath, err)
	}

	var found []Info
	for _, entry := range entries {
		if entry.IsDir() || !IsDataFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, Info{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].ModTime.Before(found[j].ModTime)
	})
	return found, nil
}

// FindByPattern returns the files under dir matching a glob pattern.
func (d *Discovery) FindByPattern(dir, pattern string) ([]Info, error) {
	searchPattern := filepath.Join(d.resolve(dir), pattern)

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var found []Info
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		found = append(found, Info{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return found, nil
}

// Resolve maps a dataset source onto a concrete file path. An existing file
// path is returned unchanged; a directory resolves to its most recently
// modified data file; a glob pattern resolves to its most recent match.
// A plain path that does not exist is returned as-is so the loader reports
// the missing file.
func (d *Discovery) Resolve(source string) (string, error) {
	fullPath := d.resolve(source)

	if info, err := os.Stat(fullPath); err == nil {
		if !info.IsDir() {
			return fullPath, nil
		}
		found, err := d.FindDataFiles(source)
		if err != nil {
			return "", err
		}
		latest, ok := Latest(found)
		if !ok {
			return "", fmt.Errorf("no data files in directory %s", fullPath)
		}
		return latest.Path, nil
	}

	if strings.ContainsAny(source, "*?[") {
		found, err := d.FindByPattern(filepath.Dir(source), filepath.Base(source))
		if err != nil {
			return "", err
		}
		latest, ok := Latest(found)
		if !ok {
			return "", fmt.Errorf("no files match pattern %s", fullPath)
		}
		return latest.Path, nil
	}

	return fullPath, nil
}

// Latest returns the most recently modified file from a list.
func Latest(files []Info) (Info, bool) {
	if len(files) == 0 {
		return Info{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}

func (d *Discovery) resolve(path string) string {
	if filepath.IsAbs(path) || d.basePath == "" {
		return path
	}
	return filepath.Join(d.basePath, path)
}

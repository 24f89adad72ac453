package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	tomlExt        = ".toml"
	templateSuffix = ".template.toml"
)

// resolveIncludePaths turns raw include patterns into cleaned absolute paths.
// Relative patterns resolve against baseDir; duplicates collapse to one
// entry. The returned slice is sorted so downstream classification is
// order-independent of the source documents.
func resolveIncludePaths(includes []string, baseDir string) []string {
	seen := make(map[string]struct{}, len(includes))
	resolved := make([]string, 0, len(includes))
	for _, pattern := range includes {
		if pattern == "" {
			continue
		}
		path := pattern
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		path = filepath.Clean(path)
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		resolved = append(resolved, path)
	}
	sort.Strings(resolved)
	return resolved
}

// isLoadableTOMLPath reports whether path names a loadable config file:
// a .toml extension that is not the .template.toml marker. Both checks are
// case-insensitive.
func isLoadableTOMLPath(path string) bool {
	lower := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(lower, tomlExt) && !strings.HasSuffix(lower, templateSuffix)
}

// findTOMLFilesInDir lists the loadable TOML files directly inside dir.
// The listing is non-recursive and sorted case-insensitively by file name.
func findTOMLFilesInDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isLoadableTOMLPath(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Slice(files, func(i, j int) bool {
		a, b := strings.ToLower(filepath.Base(files[i])), strings.ToLower(filepath.Base(files[j]))
		if a == b {
			return files[i] < files[j]
		}
		return a < b
	})
	return files, nil
}

// classified is the per-path outcome of include classification. At most one
// of files and warning is populated.
type classified struct {
	files   []string
	warning Warning
}

// collectIncludes expands include patterns into the flat, deduplicated,
// case-insensitively sorted list of files to load. Directory entries expand
// non-recursively; entries that do not resolve to a loadable file produce a
// SkippedInvalidFileWarning on state instead of failing the load.
//
// Filesystem metadata checks fan out concurrently, one goroutine per path;
// results are recombined in resolved-path order so warnings and files stay
// deterministic.
func collectIncludes(includes []string, baseDir string, state *LoadState) ([]string, error) {
	resolved := resolveIncludePaths(includes, baseDir)
	if len(resolved) == 0 {
		return nil, nil
	}

	results := make([]classified, len(resolved))
	var group errgroup.Group
	for i, path := range resolved {
		group.Go(func() error {
			info, err := os.Stat(path)
			switch {
			case err != nil:
				results[i] = classified{warning: SkippedInvalidFileWarning{Path: path}}
			case info.IsDir():
				files, err := findTOMLFilesInDir(path)
				if err != nil {
					return &FileError{Path: path, Err: err}
				}
				results[i] = classified{files: files}
			case isLoadableTOMLPath(path):
				results[i] = classified{files: []string{path}}
			default:
				results[i] = classified{warning: SkippedInvalidFileWarning{Path: path}}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	for _, res := range results {
		if res.warning != nil {
			state.warn(res.warning)
		}
		for _, f := range res.files {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		a, b := strings.ToLower(files[i]), strings.ToLower(files[j])
		if a == b {
			return files[i] < files[j]
		}
		return a < b
	})
	return files, nil
}

package config

import (
	"os"
	"path/filepath"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// MaxConfigDepth caps the file inclusion chain. The primary file sits at
// depth 0; an include whose own includes would exceed the cap is recorded as
// a MaxDepthWarning and not followed.
const MaxConfigDepth = 5

// defaultsIndex is the file index reserved for the built-in default schema.
// Files loaded from disk intern at 1 and up.
const defaultsIndex = 0

// defaultsName is the display name used for provenance of built-in values.
const defaultsName = "built-in defaults"

// LoadParams carries the invariants of one load run.
type LoadParams struct {
	// Prefix is the root segment prepended to every flattened key,
	// normally ["arcella"].
	Prefix []string
	// BaseDir anchors relative include patterns.
	BaseDir string
}

// LoadState accumulates cross-file bookkeeping during a load run: the
// insertion-ordered index of files seen so far, which doubles as the cycle
// guard, and the warning log.
type LoadState struct {
	files     *sequencedmap.Map[string, int]
	nextIndex int
	warnings  []Warning
}

// NewLoadState returns an empty state. Index 0 is reserved for the built-in
// defaults, so the first disk file interns at 1.
func NewLoadState() *LoadState {
	return &LoadState{
		files:     sequencedmap.New[string, int](),
		nextIndex: defaultsIndex + 1,
	}
}

// indexOf reports the interned index of path, if it has been loaded.
func (s *LoadState) indexOf(path string) (int, bool) {
	return s.files.Get(path)
}

// intern assigns the next index to path. The caller must have read the file
// successfully first, so a path that fails with a transient error can be
// retried by a later include.
func (s *LoadState) intern(path string) int {
	idx := s.nextIndex
	s.files.Set(path, idx)
	s.nextIndex++
	return idx
}

// fileName renders the display name for a file index.
func (s *LoadState) fileName(index int) string {
	if index == defaultsIndex {
		return defaultsName
	}
	for path, idx := range s.files.All() {
		if idx == index {
			return path
		}
	}
	return "unknown file"
}

// Files returns the loaded file paths in load order.
func (s *LoadState) Files() []string {
	out := make([]string, 0, s.files.Len())
	for path := range s.files.All() {
		out = append(out, path)
	}
	return out
}

// Warnings returns the accumulated warning log in load order.
func (s *LoadState) Warnings() []Warning {
	return s.warnings
}

func (s *LoadState) warn(w Warning) {
	s.warnings = append(s.warnings, w)
}

// LoadConfigFile loads path and, recursively, everything it includes.
// The result is the pre-order flat list of parsed files: each file appears
// before the files it included. Only an unreadable resolved file, malformed
// TOML or an unsupported value type is fatal; every softer condition lands
// in state's warning log.
func LoadConfigFile(params LoadParams, state *LoadState, path string) ([]*ParsedFile, error) {
	return loadRecursive(params, state, filepath.Clean(path), filepath.Clean(path), 0)
}

func loadRecursive(params LoadParams, state *LoadState, path, includedFrom string, depth int) ([]*ParsedFile, error) {
	if depth > MaxConfigDepth {
		state.warn(MaxDepthWarning{Path: path})
		return nil, nil
	}
	if _, seen := state.indexOf(path); seen {
		state.warn(DuplicateIncludeWarning{Path: path, IncludedFrom: includedFrom})
		return nil, nil
	}

	// Read before interning so a file that fails here is not marked as
	// loaded; the error aborts the run anyway, but partial state must not
	// claim success.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	index := state.intern(path)

	return loadParsed(params, state, string(content), index, path, depth)
}

// loadParsed flattens one document, records its soft diagnostics and then
// descends into its includes.
func loadParsed(params LoadParams, state *LoadState, content string, index int, path string, depth int) ([]*ParsedFile, error) {
	parsed, traversal, err := ParseFile(content, params.Prefix, index)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	if traversal == TraversalPruned {
		state.warn(PrunedWarning{Path: path})
	}
	for key, entry := range parsed.Values.All() {
		if entry.Value.Kind() == KindNull {
			state.warn(NullValueWarning{Key: key, File: path})
		}
	}

	includePaths, err := collectIncludes(parsed.Includes, params.BaseDir, state)
	if err != nil {
		return nil, err
	}

	files := []*ParsedFile{parsed}
	for _, include := range includePaths {
		sub, err := loadRecursive(params, state, include, path, depth+1)
		if err != nil {
			return nil, err
		}
		files = append(files, sub...)
	}
	return files, nil
}

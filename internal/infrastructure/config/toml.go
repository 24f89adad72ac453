package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// MaxTOMLDepth caps how many table levels are flattened within a single
// document. Keys nested beyond the cap are discarded and the traversal result
// downgrades to TraversalPruned.
const MaxTOMLDepth = 10

// includesKey is the reserved key that names further files to load. It is
// diverted out of the value stream at every nesting level and never appears
// as a flattened key.
const includesKey = "includes"

// TraversalResult reports whether flattening captured the whole document.
type TraversalResult int

const (
	// TraversalFull means every key was captured.
	TraversalFull TraversalResult = iota
	// TraversalPruned means tables nested beyond MaxTOMLDepth were dropped.
	TraversalPruned
)

// ValueEntry pairs a value with the index of the file that defined it.
type ValueEntry struct {
	Value     Value
	FileIndex int
}

// ParsedFile is the flattened form of one TOML document: the diverted include
// patterns plus an insertion-ordered map from fully qualified dotted keys to
// values. Keys within each table are visited in sorted order so that two
// loads of the same document produce identical iteration order.
type ParsedFile struct {
	Includes []string
	Values   *sequencedmap.Map[string, ValueEntry]
}

// ParseFile parses a TOML document and flattens it to dotted keys rooted at
// prefix. fileIndex is stamped on every entry for provenance.
//
// Parse failures and unsupported value types (date-times) are fatal. A
// document that nests deeper than MaxTOMLDepth is not an error; the result
// is TraversalPruned and the caller records a warning.
func ParseFile(content string, prefix []string, fileIndex int) (*ParsedFile, TraversalResult, error) {
	var root map[string]any
	if _, err := toml.Decode(content, &root); err != nil {
		return nil, TraversalFull, fmt.Errorf("parsing TOML: %w", err)
	}

	pf := &ParsedFile{
		Values: sequencedmap.New[string, ValueEntry](),
	}
	result, err := pf.collectTable(root, prefix, fileIndex, 0)
	if err != nil {
		return nil, TraversalFull, err
	}
	return pf, result, nil
}

// collectTable walks one table level. Sub-tables recurse with depth+1; leaf
// values flatten to prefix-joined dotted keys. The includes key is diverted
// regardless of depth.
func (pf *ParsedFile) collectTable(table map[string]any, path []string, fileIndex, depth int) (TraversalResult, error) {
	if depth > MaxTOMLDepth {
		return TraversalPruned, nil
	}

	result := TraversalFull
	for _, key := range sortedKeys(table) {
		raw := table[key]

		if key == includesKey {
			pf.divertIncludes(raw)
			continue
		}

		if sub, ok := raw.(map[string]any); ok {
			keyPath := childPath(path, key)
			subResult, err := pf.collectTable(sub, keyPath, fileIndex, depth+1)
			if err != nil {
				return TraversalFull, err
			}
			if subResult == TraversalPruned {
				result = TraversalPruned
			}
			continue
		}

		value, err := convertValue(raw)
		if err != nil {
			return TraversalFull, fmt.Errorf("key %q: %w", strings.Join(childPath(path, key), "."), err)
		}
		pf.Values.Set(strings.Join(childPath(path, key), "."), ValueEntry{
			Value:     value,
			FileIndex: fileIndex,
		})
	}
	return result, nil
}

// divertIncludes extracts include patterns from the reserved key. A single
// string or an array of strings is accepted; non-string elements are ignored.
func (pf *ParsedFile) divertIncludes(raw any) {
	switch v := raw.(type) {
	case string:
		pf.Includes = append(pf.Includes, v)
	case []string:
		pf.Includes = append(pf.Includes, v...)
	case []any:
		for _, elem := range v {
			if s, ok := elem.(string); ok {
				pf.Includes = append(pf.Includes, s)
			}
		}
	}
}

// convertValue maps a decoded TOML value onto the closed variant set.
// Tables inside arrays convert to Map values with element-relative keys
// rather than being flattened into the document key space.
func convertValue(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null{}, nil
	case string:
		return String(v), nil
	case int64:
		return Integer(v), nil
	case int:
		return Integer(v), nil
	case float64:
		return Float(v), nil
	case bool:
		return Boolean(v), nil
	case time.Time:
		return nil, fmt.Errorf("%w: date-time", ErrUnsupportedType)
	case map[string]any:
		m := make(Map, len(v))
		for key, elem := range v {
			converted, err := convertValue(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			m[key] = converted
		}
		return m, nil
	case []map[string]any:
		arr := make(Array, 0, len(v))
		for _, elem := range v {
			converted, err := convertValue(elem)
			if err != nil {
				return nil, err
			}
			arr = append(arr, converted)
		}
		return arr, nil
	case []any:
		arr := make(Array, 0, len(v))
		for _, elem := range v {
			converted, err := convertValue(elem)
			if err != nil {
				return nil, err
			}
			arr = append(arr, converted)
		}
		return arr, nil
	}

	// The decoder can hand back concretely typed slices for homogeneous
	// arrays; unwrap them element by element.
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Slice {
		arr := make(Array, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			converted, err := convertValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			arr = append(arr, converted)
		}
		return arr, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, raw)
}

// childPath returns path + key as a fresh slice so sibling recursions never
// alias each other's backing arrays.
func childPath(path []string, key string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, key)
}

func sortedKeys(table map[string]any) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

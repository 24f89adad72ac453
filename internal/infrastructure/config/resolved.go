package config

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// ResolvedValue is one entry of the final configuration: the winning value
// and the index of the file that defined it.
type ResolvedValue struct {
	Value     Value
	FileIndex int
}

// Resolved is the final, merged configuration view. Keys iterate in sorted
// order. The warning log accumulated during load and merge travels with the
// view so it can be emitted once a logger exists.
type Resolved struct {
	values    *sequencedmap.Map[string, ResolvedValue]
	fileNames []string
	warnings  []Warning
}

// Get returns the value for a fully qualified dotted key.
func (r *Resolved) Get(key string) (Value, bool) {
	entry, ok := r.values.Get(key)
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

// Source reports which file defined the current value of key. Values from
// the built-in schema report "built-in defaults".
func (r *Resolved) Source(key string) (string, bool) {
	entry, ok := r.values.Get(key)
	if !ok {
		return "", false
	}
	return r.fileName(entry.FileIndex), true
}

func (r *Resolved) fileName(index int) string {
	if index >= 0 && index < len(r.fileNames) {
		return r.fileNames[index]
	}
	return "unknown file"
}

// Keys returns all keys in sorted order.
func (r *Resolved) Keys() []string {
	out := make([]string, 0, r.values.Len())
	for key := range r.values.All() {
		out = append(out, key)
	}
	return out
}

// SectionKeys returns the keys under a dotted section prefix, e.g.
// SectionKeys("arcella.log") lists arcella.log.dir, arcella.log.level and
// so on.
func (r *Resolved) SectionKeys(section string) []string {
	prefix := section + "."
	var out []string
	for key := range r.values.All() {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	return out
}

// Len reports the number of resolved keys.
func (r *Resolved) Len() int {
	return r.values.Len()
}

// Files returns the loaded file display names in load order, the built-in
// defaults first.
func (r *Resolved) Files() []string {
	out := make([]string, len(r.fileNames))
	copy(out, r.fileNames)
	return out
}

// Warnings returns the load and merge warning log in occurrence order.
func (r *Resolved) Warnings() []Warning {
	return r.warnings
}

// GetString returns the string value of key, or an error if the key is
// absent or holds a different variant.
func (r *Resolved) GetString(key string) (string, error) {
	value, ok := r.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	s, ok := value.(String)
	if !ok {
		return "", fmt.Errorf("key %s: expected string, got %s", key, value.Kind())
	}
	return string(s), nil
}

// GetInt returns the integer value of key.
func (r *Resolved) GetInt(key string) (int64, error) {
	value, ok := r.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	i, ok := value.(Integer)
	if !ok {
		return 0, fmt.Errorf("key %s: expected integer, got %s", key, value.Kind())
	}
	return int64(i), nil
}

// GetBool returns the boolean value of key.
func (r *Resolved) GetBool(key string) (bool, error) {
	value, ok := r.Get(key)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	b, ok := value.(Boolean)
	if !ok {
		return false, fmt.Errorf("key %s: expected boolean, got %s", key, value.Kind())
	}
	return bool(b), nil
}

// newResolved builds an empty view over the given file name table.
func newResolved(fileNames []string) *Resolved {
	return &Resolved{
		values:    sequencedmap.New[string, ResolvedValue](),
		fileNames: fileNames,
	}
}

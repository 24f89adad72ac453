package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// redefSuffix marks a key as a redefinition grant. A higher-priority file
// writing "key#redef" does not set the key itself; it permits a
// lower-priority file to override the default.
const redefSuffix = "#redef"

// layeredEntry is the pass-one working form of a key: the best value seen so
// far, the file that defined it, and the highest-priority file that touched
// the key (the grantor).
type layeredEntry struct {
	value    Value
	defining int
	grantor  int
}

// Merge folds the loaded files over the built-in defaults and returns the
// final view. files must be the pre-order result of LoadConfigFile, so
// files[0] is the primary document and priority decreases with index.
// Merging never fails; every conflict resolves to a value plus a warning on
// the resulting view.
//
// Two passes:
//
//  1. Reconciliation walks the files from lowest to highest priority.
//     A plain key overwrites whatever a lower layer set, with an advisory
//     warning when the overwrite carries no redefinition grant. A
//     "key#redef" entry on an occupied key records the grant and leaves
//     the lower layer's value in place.
//
//  2. Application admits a reconciled key only if the primary document
//     defined it or granted its redefinition. Keys absent from the default
//     schema are admitted only inside the extensible namespaces
//     (<prefix>.custom. and <prefix>.modules.); everything else keeps its
//     default and gains a warning.
func Merge(params LoadParams, defaults *ParsedFile, files []*ParsedFile, state *LoadState, primaryPath string) *Resolved {
	fileNames := append([]string{defaultsName}, state.Files()...)
	resolved := newResolved(fileNames)

	primaryIndex := -1
	if idx, ok := state.indexOf(filepath.Clean(primaryPath)); ok {
		primaryIndex = idx
	}

	working := sequencedmap.New[string, *layeredEntry]()
	for i := len(files) - 1; i >= 0; i-- {
		for key, entry := range files[i].Values.All() {
			actual, isRedef := strings.CutSuffix(key, redefSuffix)
			existing, occupied := working.Get(actual)
			if !occupied {
				working.Set(actual, &layeredEntry{
					value:    entry.Value,
					defining: entry.FileIndex,
					grantor:  entry.FileIndex,
				})
				continue
			}
			if !isRedef {
				resolved.warnings = append(resolved.warnings, ValueErrorWarning{
					Key:     actual,
					Message: fmt.Sprintf("overwrites value from %s without %s flag", resolved.fileName(existing.defining), redefSuffix),
					File:    resolved.fileName(entry.FileIndex),
				})
				existing.value = entry.Value
				existing.defining = entry.FileIndex
			}
			existing.grantor = entry.FileIndex
		}
	}

	for key, entry := range defaults.Values.All() {
		resolved.values.Set(key, ResolvedValue{Value: entry.Value, FileIndex: defaultsIndex})
	}

	prefix := strings.Join(params.Prefix, ".")
	customNS := prefix + ".custom."
	modulesNS := prefix + ".modules."

	for key, entry := range working.All() {
		_, inDefaults := resolved.values.Get(key)
		granted := entry.defining == primaryIndex || entry.grantor == primaryIndex

		switch {
		case inDefaults && granted:
			resolved.values.Set(key, ResolvedValue{Value: entry.value, FileIndex: entry.defining})
		case inDefaults:
			resolved.warnings = append(resolved.warnings, ValueErrorWarning{
				Key:     key,
				Message: fmt.Sprintf("ignored, no %s grant in %s", redefSuffix, resolved.fileName(primaryIndex)),
				File:    resolved.fileName(entry.defining),
			})
		case strings.HasPrefix(key, customNS) || strings.HasPrefix(key, modulesNS):
			resolved.values.Set(key, ResolvedValue{Value: entry.value, FileIndex: entry.defining})
		default:
			resolved.warnings = append(resolved.warnings, ValueErrorWarning{
				Key:     key,
				Message: "ignored, not present in the default schema",
				File:    resolved.fileName(entry.defining),
			})
		}
	}

	sortResolved(resolved)
	resolved.warnings = append(state.Warnings(), resolved.warnings...)
	return resolved
}

// sortResolved rebuilds the value map in sorted key order.
func sortResolved(r *Resolved) {
	keys := r.Keys()
	sort.Strings(keys)
	sorted := sequencedmap.New[string, ResolvedValue]()
	for _, key := range keys {
		if entry, ok := r.values.Get(key); ok {
			sorted.Set(key, entry)
		}
	}
	r.values = sorted
}

package config

import "fmt"

// Warning is the closed set of non-fatal load and merge diagnostics. Warnings
// are accumulated in load order and kept on the resolved configuration so
// they can be emitted once the process logger exists.
type Warning interface {
	// String renders the warning as a single log line.
	String() string

	isWarning()
}

// InternalWarning reports a bookkeeping event that is worth surfacing but is
// not tied to any particular key, such as seeding a missing config file.
type InternalWarning struct {
	Message string
}

// NullValueWarning reports a key whose value loaded as Null.
type NullValueWarning struct {
	Key  string
	File string
}

// ValueErrorWarning reports a key-level problem detected during merge, such
// as an override lacking a redefinition grant.
type ValueErrorWarning struct {
	Key     string
	Message string
	File    string
}

// DuplicateIncludeWarning reports a file that was skipped because it had
// already been loaded. Cycles in the include graph surface this way.
type DuplicateIncludeWarning struct {
	Path         string
	IncludedFrom string
}

// SkippedInvalidFileWarning reports an include entry that did not resolve to
// a loadable TOML file.
type SkippedInvalidFileWarning struct {
	Path string
}

// MaxDepthWarning reports an include that was not followed because the
// inclusion chain reached MaxConfigDepth.
type MaxDepthWarning struct {
	Path string
}

// PrunedWarning reports a file whose tables nested beyond MaxTOMLDepth; the
// keys below the limit were kept, the rest were discarded.
type PrunedWarning struct {
	Path string
}

func (InternalWarning) isWarning()           {}
func (NullValueWarning) isWarning()          {}
func (ValueErrorWarning) isWarning()         {}
func (DuplicateIncludeWarning) isWarning()   {}
func (SkippedInvalidFileWarning) isWarning() {}
func (MaxDepthWarning) isWarning()           {}
func (PrunedWarning) isWarning()             {}

func (w InternalWarning) String() string {
	return fmt.Sprintf("internal: %s", w.Message)
}

func (w NullValueWarning) String() string {
	return fmt.Sprintf("null value for key %q in %s", w.Key, w.File)
}

func (w ValueErrorWarning) String() string {
	return fmt.Sprintf("value error for key %q in %s: %s", w.Key, w.File, w.Message)
}

func (w DuplicateIncludeWarning) String() string {
	return fmt.Sprintf("duplicate include of %s from %s skipped", w.Path, w.IncludedFrom)
}

func (w SkippedInvalidFileWarning) String() string {
	return fmt.Sprintf("skipped invalid config file path %s", w.Path)
}

func (w MaxDepthWarning) String() string {
	return fmt.Sprintf("max include depth reached, not loading %s", w.Path)
}

func (w PrunedWarning) String() string {
	return fmt.Sprintf("tables nested too deeply in %s, some keys were pruned", w.Path)
}

package config

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Value is the closed set of configuration value variants. Every value that
// survives loading is one of: Array, String, Integer, Float, Boolean, Map,
// Null or TypedError. The set is sealed; no package outside this one can add
// a variant.
//
// Values are immutable by convention: the loader builds them once and the
// merge engine only moves them between layers.
type Value interface {
	// Kind reports the variant tag.
	Kind() Kind

	// Equal reports deterministic structural equality. Float comparison
	// treats two NaNs as equal so that repeated loads of the same file
	// always compare identically.
	Equal(other Value) bool

	// String renders the value for logs and diagnostics.
	String() string

	isValue()
}

// Kind tags a Value variant.
type Kind int

// Value variant tags.
const (
	KindArray Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindMap
	KindNull
	KindTypedError
)

// kindNames maps tags to display names used in diagnostics.
var kindNames = map[Kind]string{
	KindArray:      "array",
	KindString:     "string",
	KindInteger:    "integer",
	KindFloat:      "float",
	KindBoolean:    "boolean",
	KindMap:        "map",
	KindNull:       "null",
	KindTypedError: "error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Array holds an ordered sequence of values. Element order is the order the
// elements appeared in the source document.
type Array []Value

// String holds a TOML string.
type String string

// Integer holds a TOML integer as a signed 64-bit value.
type Integer int64

// Float holds a TOML float.
type Float float64

// Boolean holds a TOML boolean.
type Boolean bool

// Map holds a nested table that was captured whole rather than flattened,
// which happens for tables inside arrays. Keys are relative to the table
// itself, not to the document root.
type Map map[string]Value

// Null marks a key whose value could not be represented. Nulls are preserved
// rather than dropped so that downstream consumers can see the key existed.
type Null struct{}

// TypedError records a per-value conversion problem without aborting the
// surrounding document.
type TypedError struct {
	Message string
	Type    string
}

func (Array) Kind() Kind      { return KindArray }
func (String) Kind() Kind     { return KindString }
func (Integer) Kind() Kind    { return KindInteger }
func (Float) Kind() Kind      { return KindFloat }
func (Boolean) Kind() Kind    { return KindBoolean }
func (Map) Kind() Kind        { return KindMap }
func (Null) Kind() Kind       { return KindNull }
func (TypedError) Kind() Kind { return KindTypedError }

func (Array) isValue()      {}
func (String) isValue()     {}
func (Integer) isValue()    {}
func (Float) isValue()      {}
func (Boolean) isValue()    {}
func (Map) isValue()        {}
func (Null) isValue()       {}
func (TypedError) isValue() {}

// Equal reports element-wise equality in order.
func (a Array) Equal(other Value) bool {
	b, ok := other.(Array)
	if !ok || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (s String) Equal(other Value) bool {
	b, ok := other.(String)
	return ok && s == b
}

func (i Integer) Equal(other Value) bool {
	b, ok := other.(Integer)
	return ok && i == b
}

// Equal treats two NaNs as equal; all other floats compare by value.
func (f Float) Equal(other Value) bool {
	b, ok := other.(Float)
	if !ok {
		return false
	}
	if math.IsNaN(float64(f)) && math.IsNaN(float64(b)) {
		return true
	}
	return f == b
}

func (v Boolean) Equal(other Value) bool {
	b, ok := other.(Boolean)
	return ok && v == b
}

// Equal reports key-wise equality; key order is irrelevant for maps.
func (m Map) Equal(other Value) bool {
	b, ok := other.(Map)
	if !ok || len(m) != len(b) {
		return false
	}
	for k, v := range m {
		bv, present := b[k]
		if !present || !v.Equal(bv) {
			return false
		}
	}
	return true
}

func (Null) Equal(other Value) bool {
	_, ok := other.(Null)
	return ok
}

func (e TypedError) Equal(other Value) bool {
	b, ok := other.(TypedError)
	return ok && e == b
}

func (a Array) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s String) String() string { return strconv.Quote(string(s)) }

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

func (v Boolean) String() string { return strconv.FormatBool(bool(v)) }

// String renders keys in sorted order for deterministic output.
func (m Map) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " = " + m[k].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (Null) String() string { return "null" }

func (e TypedError) String() string {
	return fmt.Sprintf("error(%s: %s)", e.Type, e.Message)
}

// MarshalJSON renders Null as a JSON null.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalJSON renders the error as an object so management clients can
// distinguish it from an ordinary string.
func (e TypedError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"error": e.Message,
		"type":  e.Type,
	})
}

// MarshalJSON renders non-finite floats as strings, which JSON cannot
// otherwise represent.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

package config

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType marks a TOML construct the value model cannot represent,
// such as a date-time. Wrapped errors carry the concrete type name.
var ErrUnsupportedType = errors.New("unsupported TOML value type")

// ErrKeyNotFound marks a required well-known key that is absent from the
// resolved configuration.
var ErrKeyNotFound = errors.New("configuration key not found")

// FileError attaches the offending file path to a load failure. Unreadable
// files and malformed TOML surface as FileError; everything softer becomes a
// Warning instead.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("config file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

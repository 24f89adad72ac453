package registry

import "errors"

var (
	// ErrModuleNotFound is returned when a module does not exist.
	ErrModuleNotFound = errors.New("module not found")

	// ErrModuleExists is returned when registering a module whose
	// name/version pair is already recorded.
	ErrModuleExists = errors.New("module already registered")
)

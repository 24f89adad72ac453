package registry

import "time"

// Module is one installed WebAssembly component.
type Module struct {
	// ID is the module's UUID, assigned at registration.
	ID string

	// Name is the component name, unique together with Version.
	Name string

	// Version is the component version string.
	Version string

	// Path is the component file, relative to the modules directory.
	Path string

	// Checksum is the sha256 of the component file, recorded at install
	// time and verified before instantiation.
	Checksum string

	// Enabled controls whether the runtime instantiates the module.
	Enabled bool

	// InstalledAt is when the module was first registered.
	InstalledAt time.Time

	// UpdatedAt is when the record last changed.
	UpdatedAt time.Time
}

// Copy returns an independent copy of the module record.
func (m *Module) Copy() *Module {
	out := *m
	return &out
}

// Package registry tracks installed WebAssembly component modules.
//
// This package manages:
//   - Persistent module records (SQLite-backed)
//   - An in-memory cache for fast lookups
//   - Module identity (UUID) and integrity metadata (checksum)
//
// The registry records what is installed; loading and executing components
// is the runtime's job.
package registry

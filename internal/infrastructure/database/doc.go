// Package database provides SQLite connectivity for the Arcella module
// registry.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Forward-only schema migrations embedded in the binary
//   - Connection pooling and lifecycle management
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Performance Characteristics:
//   - WAL mode allows concurrent reads during writes
//   - Busy timeout prevents lock contention errors
//
// Usage:
//
//	db, err := database.Open(filepath.Join(cfg.CacheDir, "registry.db"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration Strategy:
//
// Migrations are additive and forward-only. The registry can always be
// rebuilt by rescanning the modules directory, so a bad migration is fixed
// by shipping a new one rather than rolling back. New columns must be
// NULLABLE or carry DEFAULT values.
package database

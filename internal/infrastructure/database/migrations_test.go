package database

import (
	"context"
	"testing"
	"testing/fstest"
	"time"
)

// withMigrations swaps in a test migration filesystem for one test.
func withMigrations(t *testing.T, files map[string]string) {
	t.Helper()
	orig := MigrationsFS
	t.Cleanup(func() { MigrationsFS = orig })

	mapFS := fstest.MapFS{}
	for name, sql := range files {
		mapFS[name] = &fstest.MapFile{Data: []byte(sql)}
	}
	MigrationsFS = mapFS
}

// TestMigrate verifies migration application.
func TestMigrate(t *testing.T) {
	withMigrations(t, map[string]string{
		"20260101_000000_create_items.sql": `CREATE TABLE items (id TEXT PRIMARY KEY, name TEXT NOT NULL);`,
		"20260102_000000_add_index.sql":    `CREATE INDEX idx_items_name ON items(name);`,
	})

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// Both migrations recorded in order.
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		t.Fatalf("querying schema_migrations: %v", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			t.Fatal(err)
		}
		versions = append(versions, v)
	}
	if len(versions) != 2 {
		t.Fatalf("applied %d migrations, want 2", len(versions))
	}
	if versions[0] != "20260101_000000" || versions[1] != "20260102_000000" {
		t.Errorf("versions = %v, want sorted by version", versions)
	}

	// The migrated schema is usable.
	if _, err := db.ExecContext(ctx, "INSERT INTO items (id, name) VALUES ('a', 'first')"); err != nil {
		t.Errorf("inserting into migrated table: %v", err)
	}
}

// TestMigrateIdempotent verifies that re-running migrations is a no-op.
func TestMigrateIdempotent(t *testing.T) {
	withMigrations(t, map[string]string{
		"20260101_000000_create_items.sql": `CREATE TABLE items (id TEXT PRIMARY KEY);`,
	})

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("first Migrate() error = %v", err)
	}
	// A second run must skip the already-applied migration; CREATE TABLE
	// without IF NOT EXISTS would fail if it re-ran.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("schema_migrations rows = %d, want 1", count)
	}
}

// TestMigrateFailureRollsBack verifies per-migration atomicity.
func TestMigrateFailureRollsBack(t *testing.T) {
	withMigrations(t, map[string]string{
		"20260101_000000_good.sql": `CREATE TABLE good (id TEXT PRIMARY KEY);`,
		"20260102_000000_bad.sql":  `THIS IS NOT SQL;`,
	})

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.Migrate(ctx); err == nil {
		t.Fatal("Migrate() should fail on the bad migration")
	}

	// The good migration stays committed; the bad one leaves no record.
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("schema_migrations rows = %d, want 1", count)
	}
}

// TestParseMigrationFilename verifies filename parsing.
func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion string
		wantName    string
		wantOK      bool
	}{
		{"20260101_000000_create_items.sql", "20260101_000000", "create_items", true},
		{"20260101_000000_multi_word_name.sql", "20260101_000000", "multi_word_name", true},
		{"README.md", "", "", false},
		{"noversion.sql", "", "", false},
		{"20260101_onlyone.sql", "", "", false},
	}

	for _, tt := range tests {
		version, name, ok := parseMigrationFilename(tt.filename)
		if version != tt.wantVersion || name != tt.wantName || ok != tt.wantOK {
			t.Errorf("parseMigrationFilename(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.filename, version, name, ok, tt.wantVersion, tt.wantName, tt.wantOK)
		}
	}
}

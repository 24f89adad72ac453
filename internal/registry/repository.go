package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for module persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a module by its UUID.
	// Returns ErrModuleNotFound if the module does not exist.
	GetByID(ctx context.Context, id string) (*Module, error)

	// GetByNameVersion retrieves a module by its name/version pair.
	// Returns ErrModuleNotFound if the module does not exist.
	GetByNameVersion(ctx context.Context, name, version string) (*Module, error)

	// List retrieves all modules ordered by name then version.
	List(ctx context.Context) ([]Module, error)

	// Create inserts a new module record.
	// Returns ErrModuleExists if the name/version pair is already taken.
	Create(ctx context.Context, module *Module) error

	// Update modifies an existing module record.
	// Returns ErrModuleNotFound if the module does not exist.
	Update(ctx context.Context, module *Module) error

	// Delete removes a module by ID.
	// Returns ErrModuleNotFound if the module does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open, migrated SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const moduleColumns = "id, name, version, path, checksum, enabled, installed_at, updated_at"

// GetByID retrieves a module by its UUID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Module, error) {
	query := "SELECT " + moduleColumns + " FROM modules WHERE id = ?"

	module, err := scanModule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrModuleNotFound
		}
		return nil, fmt.Errorf("querying module by id: %w", err)
	}
	return module, nil
}

// GetByNameVersion retrieves a module by its name/version pair.
func (r *SQLiteRepository) GetByNameVersion(ctx context.Context, name, version string) (*Module, error) {
	query := "SELECT " + moduleColumns + " FROM modules WHERE name = ? AND version = ?"

	module, err := scanModule(r.db.QueryRowContext(ctx, query, name, version))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrModuleNotFound
		}
		return nil, fmt.Errorf("querying module by name/version: %w", err)
	}
	return module, nil
}

// List retrieves all modules ordered by name then version.
func (r *SQLiteRepository) List(ctx context.Context) ([]Module, error) {
	query := "SELECT " + moduleColumns + " FROM modules ORDER BY name, version"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}
	defer rows.Close()

	var modules []Module
	for rows.Next() {
		module, err := scanModule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning module row: %w", err)
		}
		modules = append(modules, *module)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating modules: %w", err)
	}
	return modules, nil
}

// Create inserts a new module record.
func (r *SQLiteRepository) Create(ctx context.Context, module *Module) error {
	query := `
		INSERT INTO modules (id, name, version, path, checksum, enabled, installed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		module.ID,
		module.Name,
		module.Version,
		module.Path,
		module.Checksum,
		boolToInt(module.Enabled),
		module.InstalledAt.UTC().Format(time.RFC3339),
		module.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrModuleExists
		}
		return fmt.Errorf("inserting module: %w", err)
	}
	return nil
}

// Update modifies an existing module record.
func (r *SQLiteRepository) Update(ctx context.Context, module *Module) error {
	query := `
		UPDATE modules
		SET name = ?, version = ?, path = ?, checksum = ?, enabled = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		module.Name,
		module.Version,
		module.Path,
		module.Checksum,
		boolToInt(module.Enabled),
		time.Now().UTC().Format(time.RFC3339),
		module.ID,
	)
	if err != nil {
		return fmt.Errorf("updating module: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return ErrModuleNotFound
	}
	return nil
}

// Delete removes a module by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM modules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting module: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrModuleNotFound
	}
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanModule scans one module row.
func scanModule(row rowScanner) (*Module, error) {
	var (
		m           Module
		enabled     int
		installedAt string
		updatedAt   string
	)
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Version,
		&m.Path,
		&m.Checksum,
		&enabled,
		&installedAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	m.Enabled = enabled != 0

	var err error
	if m.InstalledAt, err = time.Parse(time.RFC3339, installedAt); err != nil {
		return nil, fmt.Errorf("parsing installed_at: %w", err)
	}
	if m.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

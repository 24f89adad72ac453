package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry provides module management with caching and thread safety.
// It wraps a Repository and adds an in-memory cache for fast lookups.
//
// The cache is populated on startup via RefreshCache() and kept in sync
// by cache-invalidating CRUD operations.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cache   map[string]*Module // Cached modules by ID
	cacheMu sync.RWMutex       // Protects cache
	logger  Logger
}

// NewRegistry creates a new module registry.
// The repository is used for persistence; the registry adds caching.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		cache:  make(map[string]*Module),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all modules from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	modules, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading modules: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*Module, len(modules))
	for i := range modules {
		m := modules[i]
		r.cache[m.ID] = m.Copy()
	}

	r.logger.Info("module cache refreshed", "count", len(modules))
	return nil
}

// Register records a new module. A zero ID is assigned a fresh UUID;
// InstalledAt and UpdatedAt are stamped here.
// Returns ErrModuleExists if the name/version pair is already registered.
func (r *Registry) Register(ctx context.Context, module *Module) (*Module, error) {
	record := module.Copy()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.InstalledAt = now
	record.UpdatedAt = now

	if err := r.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[record.ID] = record.Copy()
	r.cacheMu.Unlock()

	r.logger.Info("module registered",
		"id", record.ID,
		"name", record.Name,
		"version", record.Version,
	)
	return record, nil
}

// Get retrieves a module by ID.
// Returns ErrModuleNotFound if the module does not exist.
// The returned module is a copy; callers can safely modify it.
func (r *Registry) Get(ctx context.Context, id string) (*Module, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		return cached.Copy(), nil
	}

	// Fall back to repository (might be a new module not yet cached).
	module, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[id] = module.Copy()
	r.cacheMu.Unlock()

	return module, nil
}

// List retrieves all modules.
// The returned modules are copies; callers can safely modify them.
func (r *Registry) List(ctx context.Context) ([]Module, error) {
	r.cacheMu.RLock()
	if len(r.cache) > 0 {
		modules := make([]Module, 0, len(r.cache))
		for _, m := range r.cache {
			modules = append(modules, *m.Copy())
		}
		r.cacheMu.RUnlock()
		return modules, nil
	}
	r.cacheMu.RUnlock()

	return r.repo.List(ctx)
}

// SetEnabled flips a module's enabled flag.
func (r *Registry) SetEnabled(ctx context.Context, id string, enabled bool) error {
	module, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	module.Enabled = enabled

	if err := r.repo.Update(ctx, module); err != nil {
		return err
	}

	r.cacheMu.Lock()
	r.cache[id] = module.Copy()
	r.cacheMu.Unlock()

	r.logger.Info("module enabled flag changed", "id", id, "enabled", enabled)
	return nil
}

// Remove deletes a module record.
// Returns ErrModuleNotFound if the module does not exist.
func (r *Registry) Remove(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheMu.Lock()
	delete(r.cache, id)
	r.cacheMu.Unlock()

	r.logger.Info("module removed", "id", id)
	return nil
}

// Count reports the number of cached modules.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}

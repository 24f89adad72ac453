// Arcella - WebAssembly Component Runtime
//
// This is the main entry point for the Arcella daemon. Arcella hosts
// WebAssembly component modules behind a layered TOML configuration and a
// local management socket:
//   - Self-bootstrapping config tree (seeds its own files on first run)
//   - Layered resolution with explicit redefinition grants
//   - SQLite-backed module registry
//   - ALME management protocol over a Unix socket
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/arcella-project/arcella/migrations"

	"github.com/arcella-project/arcella/internal/alme"
	"github.com/arcella-project/arcella/internal/infrastructure/config"
	"github.com/arcella-project/arcella/internal/infrastructure/database"
	"github.com/arcella-project/arcella/internal/infrastructure/logging"
	"github.com/arcella-project/arcella/internal/registry"
	"github.com/arcella-project/arcella/internal/runtime"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// registryDBName is the registry database file inside the cache directory.
const registryDBName = "registry.db"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Arcella",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration. Load seeds missing config files, resolves the
	// include graph and merges every layer over the built-in defaults.
	cfg, resolved, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded",
		"base_dir", cfg.BaseDir,
		"files", len(cfg.Files),
	)

	// Reinitialise logger with config settings
	log = logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	}, version)
	log.Info("logger initialised",
		"level", cfg.LogLevel,
		"format", cfg.LogFormat,
	)

	// Surface every warning collected during loading and merging. Warnings
	// never abort startup; they explain why an override did or did not apply.
	log.FlushConfigWarnings(resolved.Warnings())

	// Create the working directories the config points at
	for _, dir := range []string{cfg.LogDir, cfg.ModulesDir, cfg.CacheDir} {
		if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
			return fmt.Errorf("creating directory %s: %w", dir, mkErr)
		}
	}

	// Open the registry database
	db, err := database.Open(filepath.Join(cfg.CacheDir, registryDBName))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", db.Path())

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise module registry
	moduleRepo := registry.NewSQLiteRepository(db.DB)
	moduleRegistry := registry.NewRegistry(moduleRepo)
	moduleRegistry.SetLogger(log)

	if refreshErr := moduleRegistry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading module registry: %w", refreshErr)
	}
	log.Info("module registry initialised", "modules", moduleRegistry.Count())

	// Snapshot config file mtimes so status can report tampering
	integrity, err := config.NewIntegrityChecker(cfg.Files)
	if err != nil {
		log.Warn("config integrity snapshot unavailable", "error", err)
		integrity = nil
	}

	rt := runtime.New(cfg, resolved, moduleRegistry, integrity, version)
	log.Info("runtime assembled", "instance_id", rt.InstanceID())

	// Start the management socket (if enabled)
	var almeServer *alme.Server
	if cfg.ALMEEnabled {
		almeServer = alme.NewServer(cfg.SocketPath, rt, log)
		if startErr := almeServer.Start(ctx); startErr != nil {
			return fmt.Errorf("starting management socket: %w", startErr)
		}
	} else {
		log.Info("management socket disabled")
	}

	// Verify the database connection is healthy
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	if almeServer != nil {
		if err := closeWithTimeout(almeServer, time.Duration(cfg.ShutdownTimeout)*time.Second); err != nil {
			log.Error("error closing management socket", "error", err)
		}
	}

	// Deferred Close() runs last and closes the database

	log.Info("Arcella stopped")
	return nil
}

// closeWithTimeout closes the management server but gives up waiting for
// stuck connections after the configured shutdown window.
func closeWithTimeout(server *alme.Server, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- server.Close() }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timed out after %s", timeout)
	}
}

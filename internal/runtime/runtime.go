// Package runtime holds the assembled state of a running Arcella instance:
// the resolved configuration, the module registry and the config integrity
// checker. It answers the management queries served over ALME.
//
// Executing WebAssembly components is out of scope here; the runtime shell
// tracks what is installed and how the instance was configured.
package runtime

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arcella-project/arcella/internal/infrastructure/config"
	"github.com/arcella-project/arcella/internal/registry"
)

// Runtime is the management view of one daemon instance.
type Runtime struct {
	cfg       *config.Config
	resolved  *config.Resolved
	registry  *registry.Registry
	integrity *config.IntegrityChecker

	instanceID string
	version    string
	startedAt  time.Time
}

// Status is the snapshot reported to management clients.
type Status struct {
	InstanceID    string `json:"instance_id"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Modules       int    `json:"modules"`
	ConfigFiles   int    `json:"config_files"`
	Warnings      int    `json:"warnings"`
	ConfigIntact  bool   `json:"config_intact"`
}

// New assembles a runtime. The integrity checker may be nil when config
// files could not be snapshotted; status then reports the config as intact.
func New(cfg *config.Config, resolved *config.Resolved, reg *registry.Registry, integrity *config.IntegrityChecker, version string) *Runtime {
	return &Runtime{
		cfg:        cfg,
		resolved:   resolved,
		registry:   reg,
		integrity:  integrity,
		instanceID: uuid.NewString(),
		version:    version,
		startedAt:  time.Now(),
	}
}

// InstanceID returns the identifier assigned to this process instance.
func (r *Runtime) InstanceID() string {
	return r.instanceID
}

// Status reports the current instance snapshot.
func (r *Runtime) Status(ctx context.Context) Status {
	intact := true
	if r.integrity != nil {
		intact = r.integrity.Check(ctx) == nil
	}
	return Status{
		InstanceID:    r.instanceID,
		Version:       r.version,
		UptimeSeconds: int64(time.Since(r.startedAt).Seconds()),
		Modules:       r.registry.Count(),
		ConfigFiles:   len(r.cfg.Files),
		Warnings:      len(r.resolved.Warnings()),
		ConfigIntact:  intact,
	}
}

// Modules lists the installed modules.
func (r *Runtime) Modules(ctx context.Context) ([]registry.Module, error) {
	return r.registry.List(ctx)
}

// Resolved exposes the full resolved configuration view.
func (r *Runtime) Resolved() *config.Resolved {
	return r.resolved
}

package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// IntegrityChecker detects post-startup modification of the loaded config
// files. It snapshots each file's modification time at construction and
// compares on demand. The runtime does not reload configuration; a failed
// check tells the operator a restart is needed for edits to take effect.
type IntegrityChecker struct {
	snapshots map[string]time.Time
}

// NewIntegrityChecker snapshots the modification times of paths. Every path
// must exist; the loader just read them, so a missing file here means the
// environment is already shifting underneath the process.
func NewIntegrityChecker(paths []string) (*IntegrityChecker, error) {
	snapshots := make(map[string]time.Time, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("snapshotting %s: %w", path, err)
		}
		snapshots[path] = info.ModTime()
	}
	return &IntegrityChecker{snapshots: snapshots}, nil
}

// Check re-stats every tracked file concurrently and reports the first one
// that was removed or modified since startup.
func (c *IntegrityChecker) Check(ctx context.Context) error {
	group, _ := errgroup.WithContext(ctx)
	for path, recorded := range c.snapshots {
		group.Go(func() error {
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("config file %s no longer readable: %w", path, err)
			}
			if !info.ModTime().Equal(recorded) {
				return fmt.Errorf("config file %s modified since startup, restart to apply", path)
			}
			return nil
		})
	}
	return group.Wait()
}

// Len reports how many files are tracked.
func (c *IntegrityChecker) Len() int {
	return len(c.snapshots)
}

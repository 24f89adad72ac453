package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultPrefix is the root segment of every configuration key.
var DefaultPrefix = []string{"arcella"}

// Config carries the well-known keys every subsystem needs, extracted and
// validated from the resolved view. Directory values are absolute.
type Config struct {
	BaseDir   string
	ConfigDir string

	LogDir    string
	LogLevel  string
	LogFormat string
	LogOutput string

	ModulesDir string
	CacheDir   string

	ALMEEnabled bool
	SocketPath  string

	MaxInstances    int64
	ShutdownTimeout int64 // seconds

	// Files lists the loaded config files in load order, for integrity
	// checking.
	Files []string
}

// Load discovers the base directory and loads the full configuration.
// The returned Resolved view carries every key plus the warning log; Config
// is the validated extract of the well-known keys.
func Load() (*Config, *Resolved, error) {
	baseDir, err := FindBaseDir()
	if err != nil {
		return nil, nil, err
	}
	return LoadFrom(baseDir)
}

// LoadFrom loads the configuration rooted at baseDir: it seeds missing
// config files, loads the primary document and its includes, merges them
// over the built-in defaults and extracts the well-known keys.
func LoadFrom(baseDir string) (*Config, *Resolved, error) {
	baseDir = filepath.Clean(baseDir)
	configDir := filepath.Join(baseDir, "config")

	state := NewLoadState()
	primaryPath, err := ensureConfigFiles(configDir, state)
	if err != nil {
		return nil, nil, err
	}

	defaults, err := DefaultSchema(DefaultPrefix)
	if err != nil {
		return nil, nil, err
	}

	params := LoadParams{Prefix: DefaultPrefix, BaseDir: configDir}
	files, err := LoadConfigFile(params, state, primaryPath)
	if err != nil {
		return nil, nil, err
	}

	resolved := Merge(params, defaults, files, state, primaryPath)

	cfg, err := extract(baseDir, configDir, state, resolved)
	if err != nil {
		return nil, nil, err
	}
	return cfg, resolved, nil
}

// extract pulls the well-known keys out of the resolved view. A missing or
// mistyped key is fatal here; subsystems rely on these values existing.
func extract(baseDir, configDir string, state *LoadState, resolved *Resolved) (*Config, error) {
	key := func(parts ...string) string {
		return strings.Join(append(append([]string{}, DefaultPrefix...), parts...), ".")
	}

	cfg := &Config{
		BaseDir:   baseDir,
		ConfigDir: configDir,
		Files:     state.Files(),
	}

	var err error
	if cfg.LogDir, err = resolved.GetString(key("log", "dir")); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = resolved.GetString(key("log", "level")); err != nil {
		return nil, err
	}
	if cfg.LogFormat, err = resolved.GetString(key("log", "format")); err != nil {
		return nil, err
	}
	if cfg.LogOutput, err = resolved.GetString(key("log", "output")); err != nil {
		return nil, err
	}
	if cfg.ModulesDir, err = resolved.GetString(key("modules", "dir")); err != nil {
		return nil, err
	}
	if cfg.CacheDir, err = resolved.GetString(key("cache", "dir")); err != nil {
		return nil, err
	}
	if cfg.ALMEEnabled, err = resolved.GetBool(key("alme", "enabled")); err != nil {
		return nil, err
	}
	if cfg.SocketPath, err = resolved.GetString(key("alme", "socket", "path")); err != nil {
		return nil, err
	}
	if cfg.MaxInstances, err = resolved.GetInt(key("runtime", "max_instances")); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = resolved.GetInt(key("runtime", "shutdown_timeout_secs")); err != nil {
		return nil, err
	}
	if cfg.MaxInstances < 1 {
		return nil, fmt.Errorf("key %s: must be at least 1", key("runtime", "max_instances"))
	}

	cfg.LogDir = absAgainst(baseDir, cfg.LogDir)
	cfg.ModulesDir = absAgainst(baseDir, cfg.ModulesDir)
	cfg.CacheDir = absAgainst(baseDir, cfg.CacheDir)
	cfg.SocketPath = absAgainst(baseDir, cfg.SocketPath)

	return cfg, nil
}

// absAgainst resolves a possibly relative path against base.
func absAgainst(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

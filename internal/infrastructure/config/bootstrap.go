package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// templateFileName is written on first start as editing reference.
	// The .template.toml suffix keeps it out of directory expansion.
	templateFileName = "arcella.template.toml"

	// primaryFileName is the primary configuration document.
	primaryFileName = "arcella.toml"
)

// ensureConfigFiles creates the config directory and seeds the template and
// primary files on first start. Returns the path of the primary document.
// Seeding events are recorded as warnings so they surface in the startup log.
func ensureConfigFiles(configDir string, state *LoadState) (string, error) {
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	templatePath := filepath.Join(configDir, templateFileName)
	if _, err := os.Stat(templatePath); os.IsNotExist(err) {
		if err := os.WriteFile(templatePath, []byte(configTemplate), 0o600); err != nil {
			return "", fmt.Errorf("writing config template: %w", err)
		}
		state.warn(InternalWarning{Message: fmt.Sprintf("created config template %s", templatePath)})
	} else if err != nil {
		return "", fmt.Errorf("checking config template: %w", err)
	}

	primaryPath := filepath.Join(configDir, primaryFileName)
	if _, err := os.Stat(primaryPath); os.IsNotExist(err) {
		if err := os.WriteFile(primaryPath, []byte(configTemplate), 0o600); err != nil {
			return "", fmt.Errorf("seeding primary config: %w", err)
		}
		state.warn(InternalWarning{Message: fmt.Sprintf("seeded primary config %s from template", primaryPath)})
	} else if err != nil {
		return "", fmt.Errorf("checking primary config: %w", err)
	}

	return primaryPath, nil
}

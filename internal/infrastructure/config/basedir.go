package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// BaseDirEnv overrides base directory discovery when set.
const BaseDirEnv = "ARCELLA_BASE_DIR"

// FindBaseDir locates the runtime base directory:
//
//  1. $ARCELLA_BASE_DIR, when set.
//  2. The parent of the executable's directory, when the executable lives
//     in a "bin" directory (installed layout).
//  3. The executable's directory, when it contains a "config" directory
//     (portable layout).
//  4. ~/.arcella otherwise.
func FindBaseDir() (string, error) {
	if dir := os.Getenv(BaseDirEnv); dir != "" {
		return filepath.Clean(dir), nil
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		if filepath.Base(exeDir) == "bin" {
			return filepath.Dir(exeDir), nil
		}
		if info, err := os.Stat(filepath.Join(exeDir, "config")); err == nil && info.IsDir() {
			return exeDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, ".arcella"), nil
}

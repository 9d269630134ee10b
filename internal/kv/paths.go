package kv

import (
	"os"
	"path/filepath"
)

const appName = ".prqueries"

// DefaultStoragePath returns the default storage location
// Platform-specific paths:
//   - macOS/Linux: ~/.prqueries
//   - Windows: %USERPROFILE%\.prqueries
func DefaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appName), nil
}

// Package config loads runtime settings for the budget tracker.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDatabasePath is where the budget file lives unless configured.
func DefaultDatabasePath() string {
	return filepath.Join("~", ".local", "share", "budgeter", "budget.db")
}

// DefaultConfigDir holds config.yaml.
func DefaultConfigDir() string {
	return ExpandPath(filepath.Join("~", ".config", "budgeter"))
}

package config

import (
	"os"
	"path/filepath"
)

const appName = "olivia"

// defaultCacheDir returns the XDG-standard cache directory (~/.cache/olivia/).
func defaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

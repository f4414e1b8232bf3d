// Package settings persists small bits of session state between runs,
// currently the last catalog path that was successfully opened. Missing or
// malformed settings are treated as empty rather than surfaced as errors.
package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"reelcat/internal/config"
)

// Settings is the persisted session state.
type Settings struct {
	LastCatalogPath string `toml:"last_catalog_path"`
}

// DefaultPath returns the settings file location next to the main config.
func DefaultPath() string {
	path, err := config.ExpandPath("~/.config/reelcat/settings.toml")
	if err != nil {
		return filepath.Join(os.TempDir(), "reelcat-settings.toml")
	}
	return path
}

// Load reads settings from path. A missing or unparsable file yields empty
// settings and no error.
func Load(path string) Settings {
	var settings Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}
	}
	settings.LastCatalogPath = strings.TrimSpace(settings.LastCatalogPath)
	return settings
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, settings Settings) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("settings: path is empty")
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RememberCatalog records a successfully opened catalog path. Failures are
// ignored; remembering the last catalog is best-effort.
func RememberCatalog(path, catalogPath string) {
	if strings.TrimSpace(catalogPath) == "" {
		return
	}
	settings := Load(path)
	if settings.LastCatalogPath == catalogPath {
		return
	}
	settings.LastCatalogPath = catalogPath
	_ = Save(path, settings)
}

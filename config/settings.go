package config

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// StorageSettingsFileName is the optional tuning file under the root directory.
const StorageSettingsFileName = "storage.ini"

const (
	// DefaultMaxChainDepth bounds the backward walk of a chain range so that
	// malformed or cyclic parent data cannot loop forever.
	DefaultMaxChainDepth = 1 << 22

	// DefaultBackend is the database backend used when storage.ini is absent.
	DefaultBackend = "leveldb"
)

// StorageSettings are process-level storage tuning knobs shared by every chain
// under a root directory.
type StorageSettings struct {
	Backend       string `ini:"backend"`
	MaxChainDepth uint64 `ini:"max_chain_depth"`
}

// DefaultStorageSettings returns the settings used when no file overrides them.
func DefaultStorageSettings() StorageSettings {
	return StorageSettings{
		Backend:       DefaultBackend,
		MaxChainDepth: DefaultMaxChainDepth,
	}
}

// LoadStorageSettings reads storage settings from an .ini file. A missing file
// is not an error; defaults apply.
func LoadStorageSettings(path string) (StorageSettings, error) {
	settings := DefaultStorageSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return settings, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := cfg.Section("storage").MapTo(&settings); err != nil {
		return settings, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if settings.MaxChainDepth == 0 {
		settings.MaxChainDepth = DefaultMaxChainDepth
	}
	if settings.Backend == "" {
		settings.Backend = DefaultBackend
	}
	return settings, nil
}

package blockstore

import (
	"fmt"

	"github.com/chainbook/chainbook/db"
)

// BackendType selects the embedded database behind a Store.
type BackendType string

const (
	// LevelDBBackend uses goleveldb.
	LevelDBBackend BackendType = "leveldb"
	// BoltBackend uses bbolt.
	BoltBackend BackendType = "boltdb"
)

// StoreConfig holds configuration for opening a Store.
type StoreConfig struct {
	// Backend specifies which database implementation to use.
	Backend BackendType `json:"backend" yaml:"backend"`

	// Directory is the database directory path.
	Directory string `json:"directory" yaml:"directory"`
}

// Validate validates the store configuration.
func (sc *StoreConfig) Validate() error {
	if sc.Backend == "" {
		return fmt.Errorf("store backend cannot be empty")
	}
	if sc.Directory == "" {
		return fmt.Errorf("directory cannot be empty")
	}
	switch sc.Backend {
	case LevelDBBackend, BoltBackend:
		return nil
	default:
		return fmt.Errorf("unsupported store backend: %s", sc.Backend)
	}
}

// Open creates the configured database provider and wraps it in a Store.
func Open(cfg *StoreConfig) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}
	provider, err := createProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}
	return NewStore(cfg.Directory, provider), nil
}

func createProvider(cfg *StoreConfig) (db.DatabaseProvider, error) {
	switch cfg.Backend {
	case LevelDBBackend:
		return db.NewLevelDBProvider(cfg.Directory)
	case BoltBackend:
		return db.NewBoltProvider(cfg.Directory)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

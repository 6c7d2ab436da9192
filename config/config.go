package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/chainbook/chainbook/block"
)

// ChainConfigFileName is the per-chain settings file under the chain directory.
const ChainConfigFileName = "chain.yml"

// Peer is a named remote endpoint a chain can sync from. Identity is the name.
type Peer struct {
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint"`
}

// ChainConfig holds the immutable chain parameters fixed at creation plus the
// peer set, which is the only part mutated (and re-persisted) afterwards.
type ChainConfig struct {
	Genesis     block.Hash `yaml:"genesis"`
	GenesisPrev block.Hash `yaml:"genesis_prev"`
	EpochStart  uint64     `yaml:"epoch_start"`
	Peers       []Peer     `yaml:"peers"`
}

// Directory returns the storage root of a named chain.
func Directory(rootDir, name string) string {
	return filepath.Join(rootDir, name)
}

// ChainConfigFile returns the path of the config file inside a chain directory.
func ChainConfigFile(chainDir string) string {
	return filepath.Join(chainDir, ChainConfigFileName)
}

// LoadChainConfig reads and parses a chain.yml file.
func LoadChainConfig(path string) (*ChainConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfg ChainConfig
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &cfg, nil
}

// ToFile writes the config to path, replacing any previous content.
func (c *ChainConfig) ToFile(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode chain config: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// HasPeer reports whether a peer with the given name is registered.
func (c *ChainConfig) HasPeer(name string) bool {
	for _, p := range c.Peers {
		if p.Name == name {
			return true
		}
	}
	return false
}

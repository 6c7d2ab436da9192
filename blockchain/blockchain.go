// Package blockchain owns a named on-disk blockchain instance: its storage,
// its configuration, the tags that track the local tip and remote peer tips,
// and verified traversal of block ranges along the chain.
package blockchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainbook/chainbook/block"
	"github.com/chainbook/chainbook/blockstore"
	"github.com/chainbook/chainbook/config"
	"github.com/chainbook/chainbook/logx"
)

// Tag naming owned by this package. Tags are the only persisted mutable
// pointers; these two names are reserved and peer aliases must not collide
// with them.
const (
	// TagTip is the tag tracking the head of the local canonical chain.
	TagTip = "tip"
	// RemoteTagPrefix prefixes the per-peer last-synced-hash tags.
	RemoteTagPrefix = "remote/"
)

// Blockchain manages one named chain under a root directory.
type Blockchain struct {
	Name string
	Dir  string

	store    *blockstore.Store
	cfg      *config.ChainConfig
	settings config.StorageSettings
}

// RemoteTip is one peer's last-known synced position.
type RemoteTip struct {
	Peer      string
	Ref       block.Ref
	IsGenesis bool
}

func openStore(dir string, settings config.StorageSettings) (*blockstore.Store, error) {
	return blockstore.Open(&blockstore.StoreConfig{
		Backend:   blockstore.BackendType(settings.Backend),
		Directory: filepath.Join(dir, "db"),
	})
}

// Create initializes on-disk storage for a new chain under <rootDir>/<name>,
// persists cfg, points a remote tag at genesis for every configured peer and
// sets the local tip tag to genesis. Creating a chain that already exists
// fails with InitializationError.
func Create(rootDir, name string, cfg *config.ChainConfig) (*Blockchain, error) {
	dir := config.Directory(rootDir, name)
	if _, err := os.Stat(dir); err == nil {
		return nil, &InitializationError{Dir: dir, Err: errors.New("already exists")}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &InitializationError{Dir: dir, Err: err}
	}

	settings, err := config.LoadStorageSettings(filepath.Join(rootDir, config.StorageSettingsFileName))
	if err != nil {
		return nil, &InitializationError{Dir: dir, Err: err}
	}
	store, err := openStore(dir, settings)
	if err != nil {
		return nil, &InitializationError{Dir: dir, Err: err}
	}

	b := &Blockchain{
		Name:     name,
		Dir:      dir,
		store:    store,
		cfg:      cfg,
		settings: settings,
	}
	if err := b.SaveConfig(); err != nil {
		store.Close()
		return nil, err
	}

	// the config file may come with pre-set remote peers; put every one of
	// them on the fold at genesis
	for _, peer := range cfg.Peers {
		if err := store.WriteTagHash(remoteTag(peer.Name), cfg.Genesis); err != nil {
			store.Close()
			return nil, err
		}
	}
	if err := b.SaveLocalTip(cfg.Genesis); err != nil {
		store.Close()
		return nil, err
	}

	logx.Info("CHAIN", "created blockchain ", name, " in ", dir)
	return b, nil
}

// Load opens an existing chain. A missing or corrupt config file is a
// ConfigError; the chain cannot be used without it.
func Load(rootDir, name string) (*Blockchain, error) {
	dir := config.Directory(rootDir, name)

	settings, err := config.LoadStorageSettings(filepath.Join(rootDir, config.StorageSettingsFileName))
	if err != nil {
		return nil, &InitializationError{Dir: dir, Err: err}
	}

	cfgPath := config.ChainConfigFile(dir)
	cfg, err := config.LoadChainConfig(cfgPath)
	if err != nil {
		return nil, &ConfigError{Path: cfgPath, Err: err}
	}

	store, err := openStore(dir, settings)
	if err != nil {
		return nil, &InitializationError{Dir: dir, Err: err}
	}

	return &Blockchain{
		Name:     name,
		Dir:      dir,
		store:    store,
		cfg:      cfg,
		settings: settings,
	}, nil
}

// Close releases the underlying store.
func (b *Blockchain) Close() error {
	return b.store.Close()
}

// Destroy irreversibly deletes all on-disk state of the chain. The caller
// must guarantee there are no other live readers or writers; the manager is
// unusable afterwards.
func (b *Blockchain) Destroy() error {
	if err := b.store.Close(); err != nil {
		return err
	}
	logx.Warn("CHAIN", "destroying blockchain ", b.Name, " in ", b.Dir)
	return os.RemoveAll(b.Dir)
}

// Store exposes the underlying block store so sync layers can feed blocks in.
func (b *Blockchain) Store() *blockstore.Store {
	return b.store
}

// Config returns the in-memory chain configuration.
func (b *Blockchain) Config() *config.ChainConfig {
	return b.cfg
}

// SaveConfig rewrites the chain config file from the in-memory config.
func (b *Blockchain) SaveConfig() error {
	return b.cfg.ToFile(config.ChainConfigFile(b.Dir))
}

func remoteTag(alias string) string {
	return RemoteTagPrefix + alias
}

// AddPeer registers a new remote and points its tag at genesis. The peer set
// is only persisted to disk by SaveConfig. A duplicate alias is rejected with
// ErrDuplicatePeer.
func (b *Blockchain) AddPeer(alias, endpoint string) error {
	if alias == "" {
		return fmt.Errorf("blockchain: peer alias cannot be empty")
	}
	if b.cfg.HasPeer(alias) {
		return fmt.Errorf("%w: %q", ErrDuplicatePeer, alias)
	}
	b.cfg.Peers = append(b.cfg.Peers, config.Peer{Name: alias, Endpoint: endpoint})
	return b.store.WriteTagHash(remoteTag(alias), b.cfg.Genesis)
}

// RemovePeer drops a remote and its tag. Removing an unknown alias is a no-op.
func (b *Blockchain) RemovePeer(alias string) error {
	peers := b.cfg.Peers[:0]
	for _, p := range b.cfg.Peers {
		if p.Name != alias {
			peers = append(peers, p)
		}
	}
	b.cfg.Peers = peers
	return b.store.RemoveTag(remoteTag(alias))
}

// Peers returns the registered peers in insertion order. The slice is a copy
// and stays stable while the caller iterates.
func (b *Blockchain) Peers() []config.Peer {
	peers := make([]config.Peer, len(b.cfg.Peers))
	copy(peers, b.cfg.Peers)
	return peers
}

func (b *Blockchain) genesisRef() block.Ref {
	return block.Ref{
		Hash:   b.cfg.Genesis,
		Parent: b.cfg.GenesisPrev,
		Date:   block.BoundaryDate(b.cfg.EpochStart),
	}
}

// resolveTag turns a tag into a chain position. An absent tag resolves to the
// genesis ref; any other failure is local corruption, not a recoverable
// condition.
func (b *Blockchain) resolveTag(tag string) (block.Ref, bool, error) {
	h, err := b.store.ReadTag(tag)
	if err != nil {
		if errors.Is(err, blockstore.ErrNoSuchTag) {
			return b.genesisRef(), true, nil
		}
		return block.Ref{}, false, &StorageCorruptionError{Op: "read tag " + tag, Err: err}
	}
	if h == b.cfg.Genesis {
		return b.genesisRef(), true, nil
	}
	blk, err := b.store.GetBlockByHash(h)
	if err != nil {
		return block.Ref{}, false, &StorageCorruptionError{Op: "resolve tag " + tag, Err: err}
	}
	return blk.Ref(), false, nil
}

// LoadLocalTip resolves the tip tag. Before any SaveLocalTip the tip is the
// genesis block; the boolean reports whether the resolved tip is genesis.
func (b *Blockchain) LoadLocalTip() (block.Ref, bool, error) {
	return b.resolveTag(TagTip)
}

// SaveLocalTip overwrites the tip tag. No reachability validation happens
// here; ranges are validated when they are opened.
func (b *Blockchain) SaveLocalTip(h block.Hash) error {
	return b.store.WriteTagHash(TagTip, h)
}

// SaveRemoteTip records a peer's last-synced hash.
func (b *Blockchain) SaveRemoteTip(alias string, h block.Hash) error {
	return b.store.WriteTagHash(remoteTag(alias), h)
}

// LoadRemoteTips resolves every peer's remote tag, in peer-list order, with
// the same rules as LoadLocalTip.
func (b *Blockchain) LoadRemoteTips() ([]RemoteTip, error) {
	tips := make([]RemoteTip, 0, len(b.cfg.Peers))
	for _, peer := range b.cfg.Peers {
		ref, isGenesis, err := b.resolveTag(remoteTag(peer.Name))
		if err != nil {
			return nil, err
		}
		tips = append(tips, RemoteTip{Peer: peer.Name, Ref: ref, IsGenesis: isGenesis})
	}
	return tips, nil
}

// OpenRange opens a verified iterator over (from, to]: the blocks after from
// up to and including to, in ancestor-to-descendant order.
func (b *Blockchain) OpenRange(from, to block.Hash) (*Range, error) {
	return NewRange(b.store, from, to, b.cfg.GenesisPrev, b.settings.MaxChainDepth)
}

// OpenRangeToTip opens a verified iterator from a known hash up to the
// current local tip.
func (b *Blockchain) OpenRangeToTip(from block.Hash) (*Range, error) {
	tip, _, err := b.LoadLocalTip()
	if err != nil {
		return nil, err
	}
	return b.OpenRange(from, tip.Hash)
}

package blockchain

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/chainbook/chainbook/block"
	"github.com/chainbook/chainbook/config"
)

func testGenesisHash() block.Hash {
	return sha256.Sum256([]byte("genesis"))
}

func testChainConfig() *config.ChainConfig {
	return &config.ChainConfig{
		Genesis:     testGenesisHash(),
		GenesisPrev: block.Hash{},
		EpochStart:  0,
		Peers: []config.Peer{
			{Name: "seed", Endpoint: "tcp://seed.example.com:3000"},
		},
	}
}

func newTestChain(t *testing.T) *Blockchain {
	t.Helper()
	b, err := Create(t.TempDir(), "testnet", testChainConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

// appendBlocks stores n blocks chained on top of genesis and returns their
// hashes in chain order.
func appendBlocks(t *testing.T, b *Blockchain, n int) []block.Hash {
	t.Helper()
	hashes := make([]block.Hash, 0, n)
	prev := b.Config().Genesis
	for i := 0; i < n; i++ {
		blk := block.NewBlock(prev, block.NormalDate(0, uint64(i+1)), []byte(fmt.Sprintf("block-%d", i+1)))
		if err := b.Store().PutBlock(blk); err != nil {
			t.Fatalf("PutBlock failed: %v", err)
		}
		hashes = append(hashes, blk.BlockHash)
		prev = blk.BlockHash
	}
	return hashes
}

func TestLoadLocalTipDefault(t *testing.T) {
	b := newTestChain(t)

	ref, isGenesis, err := b.LoadLocalTip()
	if err != nil {
		t.Fatalf("LoadLocalTip failed: %v", err)
	}
	if !isGenesis {
		t.Error("fresh chain tip should be genesis")
	}
	if ref.Hash != testGenesisHash() {
		t.Errorf("expected genesis hash %s, got %s", testGenesisHash(), ref.Hash)
	}
	if !ref.Date.Boundary || ref.Date.Epoch != 0 {
		t.Errorf("expected genesis boundary date, got %s", ref.Date)
	}
}

func TestTipRoundTrip(t *testing.T) {
	b := newTestChain(t)
	hashes := appendBlocks(t, b, 3)

	if err := b.SaveLocalTip(hashes[2]); err != nil {
		t.Fatalf("SaveLocalTip failed: %v", err)
	}
	ref, isGenesis, err := b.LoadLocalTip()
	if err != nil {
		t.Fatalf("LoadLocalTip failed: %v", err)
	}
	if isGenesis {
		t.Error("tip should not be genesis after SaveLocalTip")
	}
	if ref.Hash != hashes[2] {
		t.Errorf("expected tip %s, got %s", hashes[2], ref.Hash)
	}
	if ref.Parent != hashes[1] {
		t.Errorf("expected parent %s, got %s", hashes[1], ref.Parent)
	}

	// pointing the tip back at genesis flips the flag again
	if err := b.SaveLocalTip(b.Config().Genesis); err != nil {
		t.Fatalf("SaveLocalTip failed: %v", err)
	}
	ref, isGenesis, err = b.LoadLocalTip()
	if err != nil {
		t.Fatalf("LoadLocalTip failed: %v", err)
	}
	if !isGenesis || ref.Hash != b.Config().Genesis {
		t.Errorf("expected genesis tip, got %s (genesis=%v)", ref.Hash, isGenesis)
	}
}

func TestLoadLocalTipDanglingHash(t *testing.T) {
	b := newTestChain(t)

	// a tip tag pointing at a hash the store never saw is local corruption,
	// not the recoverable not-found class
	dangling := block.Hash(sha256.Sum256([]byte("dangling")))
	if err := b.SaveLocalTip(dangling); err != nil {
		t.Fatalf("SaveLocalTip failed: %v", err)
	}

	var corruptErr *StorageCorruptionError
	_, _, err := b.LoadLocalTip()
	if !errors.As(err, &corruptErr) {
		t.Fatalf("expected StorageCorruptionError, got %v", err)
	}
}

func TestLoadRemoteTipsDanglingHash(t *testing.T) {
	b := newTestChain(t)

	dangling := block.Hash(sha256.Sum256([]byte("dangling")))
	if err := b.SaveRemoteTip("seed", dangling); err != nil {
		t.Fatalf("SaveRemoteTip failed: %v", err)
	}

	var corruptErr *StorageCorruptionError
	_, err := b.LoadRemoteTips()
	if !errors.As(err, &corruptErr) {
		t.Fatalf("expected StorageCorruptionError, got %v", err)
	}
}

func TestPeerTagLifecycle(t *testing.T) {
	b := newTestChain(t)

	if err := b.AddPeer("relay", "tcp://relay.example.com:3000"); err != nil {
		t.Fatalf("AddPeer failed: %v", err)
	}

	tips, err := b.LoadRemoteTips()
	if err != nil {
		t.Fatalf("LoadRemoteTips failed: %v", err)
	}
	if len(tips) != 2 {
		t.Fatalf("expected 2 remote tips, got %d", len(tips))
	}
	if tips[1].Peer != "relay" || !tips[1].IsGenesis || tips[1].Ref.Hash != b.Config().Genesis {
		t.Errorf("unexpected tip for new peer: %+v", tips[1])
	}

	// sync progress moves the remote tag
	hashes := appendBlocks(t, b, 2)
	if err := b.SaveRemoteTip("relay", hashes[1]); err != nil {
		t.Fatalf("SaveRemoteTip failed: %v", err)
	}
	tips, err = b.LoadRemoteTips()
	if err != nil {
		t.Fatalf("LoadRemoteTips failed: %v", err)
	}
	if tips[1].IsGenesis || tips[1].Ref.Hash != hashes[1] {
		t.Errorf("unexpected tip after sync: %+v", tips[1])
	}

	if err := b.RemovePeer("relay"); err != nil {
		t.Fatalf("RemovePeer failed: %v", err)
	}
	tips, err = b.LoadRemoteTips()
	if err != nil {
		t.Fatalf("LoadRemoteTips failed: %v", err)
	}
	if len(tips) != 1 || tips[0].Peer != "seed" {
		t.Errorf("expected only the seed peer left, got %+v", tips)
	}
}

func TestAddPeerDuplicate(t *testing.T) {
	b := newTestChain(t)

	err := b.AddPeer("seed", "tcp://other.example.com:3000")
	if !errors.Is(err, ErrDuplicatePeer) {
		t.Errorf("expected ErrDuplicatePeer, got %v", err)
	}
	if len(b.Peers()) != 1 {
		t.Errorf("duplicate add must not grow the peer list, got %d peers", len(b.Peers()))
	}
}

func TestAddPeerEmptyAlias(t *testing.T) {
	b := newTestChain(t)
	if err := b.AddPeer("", "tcp://x.example.com:3000"); err == nil {
		t.Error("expected error for empty alias")
	}
}

func TestRemovePeerUnknownIsNoop(t *testing.T) {
	b := newTestChain(t)
	if err := b.RemovePeer("nobody"); err != nil {
		t.Errorf("removing an unknown peer should be a no-op, got %v", err)
	}
	if len(b.Peers()) != 1 {
		t.Errorf("peer list should be untouched, got %d peers", len(b.Peers()))
	}
}

func TestPeersInsertionOrder(t *testing.T) {
	b := newTestChain(t)
	for _, alias := range []string{"alpha", "bravo", "charlie"} {
		if err := b.AddPeer(alias, "tcp://"+alias+".example.com:3000"); err != nil {
			t.Fatalf("AddPeer(%s) failed: %v", alias, err)
		}
	}
	want := []string{"seed", "alpha", "bravo", "charlie"}
	peers := b.Peers()
	if len(peers) != len(want) {
		t.Fatalf("expected %d peers, got %d", len(want), len(peers))
	}
	for i, alias := range want {
		if peers[i].Name != alias {
			t.Errorf("peer %d: expected %s, got %s", i, alias, peers[i].Name)
		}
	}
}

func TestLoadAfterCreate(t *testing.T) {
	root := t.TempDir()
	created, err := Create(root, "mainnet", testChainConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	tipBefore, genesisBefore, err := created.LoadLocalTip()
	if err != nil {
		t.Fatalf("LoadLocalTip failed: %v", err)
	}
	if err := created.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	loaded, err := Load(root, "mainnet")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer loaded.Close()

	if loaded.Config().Genesis != testGenesisHash() {
		t.Errorf("config genesis lost in round-trip: %s", loaded.Config().Genesis)
	}
	if len(loaded.Config().Peers) != 1 || loaded.Config().Peers[0].Name != "seed" {
		t.Errorf("peer set lost in round-trip: %+v", loaded.Config().Peers)
	}
	tipAfter, genesisAfter, err := loaded.LoadLocalTip()
	if err != nil {
		t.Fatalf("LoadLocalTip after reload failed: %v", err)
	}
	if tipAfter != tipBefore || genesisAfter != genesisBefore {
		t.Errorf("tip changed across reload: %+v vs %+v", tipAfter, tipBefore)
	}
}

func TestSaveConfigPersistsPeers(t *testing.T) {
	root := t.TempDir()
	b, err := Create(root, "mainnet", testChainConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := b.AddPeer("relay", "tcp://relay.example.com:3000"); err != nil {
		t.Fatalf("AddPeer failed: %v", err)
	}
	if err := b.SaveConfig(); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	b.Close()

	loaded, err := Load(root, "mainnet")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer loaded.Close()
	if !loaded.Config().HasPeer("relay") {
		t.Error("added peer not persisted by SaveConfig")
	}
}

func TestCreateExistingChainFails(t *testing.T) {
	root := t.TempDir()
	b, err := Create(root, "mainnet", testChainConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	b.Close()

	var initErr *InitializationError
	_, err = Create(root, "mainnet", testChainConfig())
	if !errors.As(err, &initErr) {
		t.Errorf("expected InitializationError, got %v", err)
	}
}

func TestLoadMissingConfig(t *testing.T) {
	var cfgErr *ConfigError
	_, err := Load(t.TempDir(), "ghost")
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %v", err)
	}
}

func TestDestroy(t *testing.T) {
	b, err := Create(t.TempDir(), "doomed", testChainConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	dir := b.Dir
	if err := b.Destroy(); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("chain directory still present after Destroy: %v", err)
	}
}

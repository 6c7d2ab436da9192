package blockstore

import (
	"errors"
	"fmt"

	"github.com/chainbook/chainbook/block"
	"github.com/chainbook/chainbook/db"
	"github.com/chainbook/chainbook/jsonx"
)

// Database key prefixes. Blocks are keyed by header hash; tags are named
// mutable pointers kept outside the immutable block records.
const (
	prefixBlock = "blk:"
	prefixTag   = "tag:"
)

var (
	// ErrBlockNotFound is returned when a hash is not present in the store.
	ErrBlockNotFound = errors.New("blockstore: block not found")
	// ErrNoSuchTag is returned when a tag name has no binding.
	ErrNoSuchTag = errors.New("blockstore: no such tag")
)

// Store is a content-addressed block store with a symbolic tag table, backed
// by an embedded key-value database.
type Store struct {
	dir      string
	provider db.DatabaseProvider
}

// NewStore wraps an opened database provider.
func NewStore(dir string, provider db.DatabaseProvider) *Store {
	return &Store{dir: dir, provider: provider}
}

// Dir returns the directory the store lives in.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Close() error {
	return s.provider.Close()
}

func blockKey(h block.Hash) []byte {
	return append([]byte(prefixBlock), h[:]...)
}

func tagKey(name string) []byte {
	return append([]byte(prefixTag), name...)
}

// PutBlock stores a block under its header hash. Blocks are immutable, so
// overwriting an existing hash with identical content is harmless.
func (s *Store) PutBlock(b *block.Block) error {
	raw, err := jsonx.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode block %s: %w", b.BlockHash, err)
	}
	return s.provider.Put(blockKey(b.BlockHash), raw)
}

// GetBlockByHash fetches a block, ErrBlockNotFound when the hash is absent.
// Any other error is an I/O failure of the backend.
func (s *Store) GetBlockByHash(h block.Hash) (*block.Block, error) {
	raw, err := s.provider.Get(blockKey(h))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, h)
		}
		return nil, err
	}
	var b block.Block
	if err := jsonx.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("failed to decode block %s: %w", h, err)
	}
	return &b, nil
}

// DeleteBlock removes a block record, e.g. when pruning an abandoned fork.
// Deleting an absent hash is a no-op. Callers must not delete blocks that a
// live range still walks.
func (s *Store) DeleteBlock(h block.Hash) error {
	return s.provider.Delete(blockKey(h))
}

// HasBlock checks presence without decoding.
func (s *Store) HasBlock(h block.Hash) (bool, error) {
	return s.provider.Has(blockKey(h))
}

// WriteTagHash upserts a named pointer to a block hash. The write is a single
// atomic put at the backend layer.
func (s *Store) WriteTagHash(name string, h block.Hash) error {
	return s.provider.Put(tagKey(name), h[:])
}

// ReadTag resolves a tag to the hash it points at, ErrNoSuchTag when the name
// has no binding.
func (s *Store) ReadTag(name string) (block.Hash, error) {
	var h block.Hash
	raw, err := s.provider.Get(tagKey(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return h, fmt.Errorf("%w: %q", ErrNoSuchTag, name)
		}
		return h, err
	}
	if len(raw) != block.HashSize {
		return h, fmt.Errorf("corrupt tag %q: expected %d bytes, got %d", name, block.HashSize, len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

// RemoveTag deletes a tag binding. Removing an absent tag is a no-op.
func (s *Store) RemoveTag(name string) error {
	return s.provider.Delete(tagKey(name))
}

package blockchain

import (
	"errors"
	"fmt"

	"github.com/chainbook/chainbook/block"
)

// ErrDuplicatePeer is returned by AddPeer when the alias is already
// registered for the chain.
var ErrDuplicatePeer = errors.New("blockchain: peer alias already registered")

// InitializationError means the on-disk storage for a chain could not be
// created or opened. It is surfaced to the caller and never retried here.
type InitializationError struct {
	Dir string
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("cannot initialize blockchain directory %s: %v", e.Dir, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// ConfigError means the chain config file is missing or unparseable. Loading
// cannot proceed without it.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cannot load chain config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// UnknownBlockError reports a hash, either a range endpoint or a parent link,
// that is absent from the store. Recoverable: the caller can fetch more blocks
// and retry.
type UnknownBlockError struct {
	Hash block.Hash
}

func (e *UnknownBlockError) Error() string {
	return fmt.Sprintf("unknown block %s", e.Hash)
}

// NoPathFoundError reports that the backward walk from To never reached From:
// the hashes are on diverged chains or From is stale.
type NoPathFoundError struct {
	From block.Hash
	To   block.Hash
}

func (e *NoPathFoundError) Error() string {
	return fmt.Sprintf("no path found from %s to %s", e.From, e.To)
}

// StorageCorruptionError is the fatal class: the store failed in a way that
// only local corruption or concurrent mutation explains. Callers should stop
// operating on this chain.
type StorageCorruptionError struct {
	Op  string
	Err error
}

func (e *StorageCorruptionError) Error() string {
	return fmt.Sprintf("storage corruption during %s: %v", e.Op, e.Err)
}

func (e *StorageCorruptionError) Unwrap() error { return e.Err }

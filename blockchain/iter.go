package blockchain

import (
	"errors"

	"github.com/chainbook/chainbook/block"
	"github.com/chainbook/chainbook/blockstore"
)

// Range iterates over the blocks between two validated header hashes in
// ancestor-to-descendant order. The store only records child-to-parent links,
// so the path is discovered by walking backward from the descendant, and the
// whole walk is validated before the first block is handed out: callers never
// observe a partial range that later turns out invalid.
//
// A Range is finite and not restartable; open a fresh one to re-walk.
// Abandoning it early holds nothing beyond the store handle.
type Range struct {
	store *blockstore.Store

	// hashes excludes from and includes to, forward order.
	hashes []block.Hash
	pos    int
}

// NewRange validates the path between from and to. from == to is an empty but
// valid range. A hash missing from the store fails with UnknownBlockError;
// walking past the chain root or beyond maxDepth without meeting from fails
// with NoPathFoundError.
func NewRange(store *blockstore.Store, from, to block.Hash, genesisPrev block.Hash, maxDepth uint64) (*Range, error) {
	r := &Range{store: store}
	if from == to {
		return r, nil
	}

	path := make([]block.Hash, 0, 64)
	cur := to
	for depth := uint64(0); cur != from; depth++ {
		if cur == genesisPrev || depth >= maxDepth {
			return nil, &NoPathFoundError{From: from, To: to}
		}
		blk, err := store.GetBlockByHash(cur)
		if err != nil {
			if errors.Is(err, blockstore.ErrBlockNotFound) {
				return nil, &UnknownBlockError{Hash: cur}
			}
			return nil, err
		}
		path = append(path, cur)
		cur = blk.PrevHash
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	r.hashes = path
	return r, nil
}

// Len returns how many blocks remain to be yielded.
func (r *Range) Len() int {
	return len(r.hashes) - r.pos
}

// Next yields the next block in ancestor-to-descendant order, (nil, nil) once
// the range is exhausted. The path was validated against the store at
// construction, so a fetch failure here means the store was mutated
// underneath us.
func (r *Range) Next() (*block.Block, error) {
	if r.pos >= len(r.hashes) {
		return nil, nil
	}
	h := r.hashes[r.pos]
	blk, err := r.store.GetBlockByHash(h)
	if err != nil {
		return nil, &StorageCorruptionError{Op: "fetch validated block " + h.String(), Err: err}
	}
	r.pos++
	return blk, nil
}

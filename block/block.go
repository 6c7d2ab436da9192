package block

import (
	"crypto/sha256"
	"encoding/binary"
)

// Block is a stored chain block: an immutable record addressed by the hash of
// its header fields. The payload is opaque to the management layer.
type Block struct {
	PrevHash  Hash   `json:"prev_hash"`
	Date      Date   `json:"date"`
	Data      []byte `json:"data,omitempty"`
	BlockHash Hash   `json:"block_hash"`
}

// NewBlock assembles a block on top of prevHash and seals its hash.
func NewBlock(prevHash Hash, date Date, data []byte) *Block {
	b := &Block{
		PrevHash: prevHash,
		Date:     date,
		Data:     data,
	}
	b.BlockHash = b.ComputeHash()
	return b
}

// ComputeHash hashes the header fields and payload. The stored BlockHash is
// excluded so the digest stays stable across round-trips.
func (b *Block) ComputeHash() Hash {
	h := sha256.New()
	h.Write(b.PrevHash[:])
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, b.Date.Epoch)
	h.Write(buf)
	binary.BigEndian.PutUint64(buf, b.Date.Slot)
	h.Write(buf)
	if b.Date.Boundary {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write(b.Data)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Ref is a lightweight descriptor of a block's identity and chain position.
type Ref struct {
	Hash   Hash
	Parent Hash
	Date   Date
}

// Ref returns the block's descriptor without its payload.
func (b *Block) Ref() Ref {
	return Ref{
		Hash:   b.BlockHash,
		Parent: b.PrevHash,
		Date:   b.Date,
	}
}

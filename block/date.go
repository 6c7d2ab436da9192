package block

import (
	"fmt"
	"strconv"
	"strings"
)

// Date is a block's position on the chain. Epoch boundary blocks carry only an
// epoch number; normal blocks carry an epoch and a slot within that epoch.
type Date struct {
	Epoch    uint64 `json:"epoch"`
	Slot     uint64 `json:"slot"`
	Boundary bool   `json:"boundary,omitempty"`
}

// BoundaryDate returns the date of the boundary block opening the given epoch.
func BoundaryDate(epoch uint64) Date {
	return Date{Epoch: epoch, Boundary: true}
}

// NormalDate returns the date of a normal block at epoch.slot.
func NormalDate(epoch, slot uint64) Date {
	return Date{Epoch: epoch, Slot: slot}
}

// Cmp orders dates along the chain: a boundary block precedes every normal
// block of its epoch. Returns -1, 0 or 1.
func (d Date) Cmp(other Date) int {
	if d.Epoch != other.Epoch {
		if d.Epoch < other.Epoch {
			return -1
		}
		return 1
	}
	if d.Boundary != other.Boundary {
		if d.Boundary {
			return -1
		}
		return 1
	}
	if d.Slot != other.Slot {
		if d.Slot < other.Slot {
			return -1
		}
		return 1
	}
	return 0
}

// String renders "<epoch>" for boundary blocks and "<epoch>.<slot>" otherwise.
func (d Date) String() string {
	if d.Boundary {
		return strconv.FormatUint(d.Epoch, 10)
	}
	return fmt.Sprintf("%d.%d", d.Epoch, d.Slot)
}

// ParseDate parses the String form of a date.
func ParseDate(s string) (Date, error) {
	epochStr, slotStr, hasSlot := strings.Cut(s, ".")
	epoch, err := strconv.ParseUint(epochStr, 10, 64)
	if err != nil {
		return Date{}, fmt.Errorf("invalid block date %q: %w", s, err)
	}
	if !hasSlot {
		return BoundaryDate(epoch), nil
	}
	slot, err := strconv.ParseUint(slotStr, 10, 64)
	if err != nil {
		return Date{}, fmt.Errorf("invalid block date %q: %w", s, err)
	}
	return NormalDate(epoch, slot), nil
}

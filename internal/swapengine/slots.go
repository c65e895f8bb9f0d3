// Package swapengine implements the demand-paging swap subsystem: a
// fixed slot table on disk, the page-out/page-in protocol, victim
// selection, an adaptive eviction controller, fork-time slot
// duplication, and process teardown. This file holds the slot table.
package swapengine

import (
	"fmt"
	"sync"

	"github.com/shreyash0907/xv6-swap-engine/internal/kernel"
)

// NumSlots is the size of the fixed swap-slot array: 800 slots.
const NumSlots = 800

// slot is one swap-slot record: the saved protection flags and the
// free/allocated bit. Its disk region is authoritative only while
// allocated is true.
type slot struct {
	flags     uint32
	allocated bool
}

// SlotTable is the process-wide array of NumSlots slots guarded by a
// single mutex. All operations hold the mutex for the entire critical
// section; no nested lock is ever taken while it is held.
type SlotTable struct {
	mu    sync.Mutex
	slots [NumSlots]slot
}

// NewSlotTable returns a table with every slot free.
func NewSlotTable() *SlotTable {
	return &SlotTable{}
}

// Allocate performs a first-fit linear scan and atomically marks the
// first free slot allocated. Insertion order is irrelevant to
// fairness.
func (t *SlotTable) Allocate() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.slots {
		if !t.slots[i].allocated {
			t.slots[i].allocated = true
			return i, nil
		}
	}
	return -1, fmt.Errorf("swapengine: allocate: %w", kernel.ErrNoSlot)
}

// Free marks index free and clears its saved flags. Out-of-range
// indices are a no-op, and freeing an already-free slot is a no-op:
// both idempotent.
func (t *SlotTable) Free(index int) {
	if index < 0 || index >= NumSlots {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots[index] = slot{}
}

// IsAllocated reports whether index currently holds live data.
// Out-of-range indices report false.
func (t *SlotTable) IsAllocated(index int) bool {
	if index < 0 || index >= NumSlots {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.slots[index].allocated
}

// ReadFlags returns the saved protection flags for an allocated slot.
func (t *SlotTable) ReadFlags(index int) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.slots[index].flags
}

// WriteFlags sets the saved protection flags for a slot.
func (t *SlotTable) WriteFlags(index int, flags uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots[index].flags = flags
}

// blockBase returns the first block number of slot index's 8-block
// region, reserving the first 2 blocks for boot+superblock.
func blockBase(index int) int {
	return 2 + index*kernel.BlocksPerSlot
}

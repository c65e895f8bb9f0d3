package swapengine

import (
	"fmt"

	"github.com/shreyash0907/xv6-swap-engine/internal/kernel"
)

// DupSlot is dup_slot(parent_index), called by the fork copy path for
// every swapped PTE in the parent's address space. It validates the
// parent slot, allocates a child slot (retrying through the
// controller up to twice on exhaustion), copies the saved flags,
// copies the 8 disk blocks parent->child via the block cache, and
// returns the child index. Any freshly-allocated child slot is freed
// before a failing return, so fork never leaks a slot.
//
// The block I/O happens after the slot-table lock is released
// (slots.Allocate/ReadFlags/WriteFlags each take and release it
// internally) — disk I/O must never occur under that mutex.
func (e *Engine) DupSlot(parentIndex int) (int, error) {
	if !e.slots.IsAllocated(parentIndex) {
		return -1, fmt.Errorf("swapengine: dup_slot: parent slot %d: %w", parentIndex, kernel.ErrPTEState)
	}

	childIndex, err := e.allocateSlotWithRetry()
	if err != nil {
		return -1, fmt.Errorf("swapengine: dup_slot: %w", err)
	}

	flags := e.slots.ReadFlags(parentIndex)
	e.slots.WriteFlags(childIndex, flags)

	if err := e.copySlotBlocks(parentIndex, childIndex); err != nil {
		e.slots.Free(childIndex)
		return -1, fmt.Errorf("swapengine: dup_slot: %w", err)
	}

	return childIndex, nil
}

// allocateSlotWithRetry implements the NO_SLOT recovery for fork
// duplication: invoke the controller and retry, at most twice, before
// surfacing ErrNoSlot. swapOut does not use it; its own allocation
// returns ErrNoSlot on the first failure.
func (e *Engine) allocateSlotWithRetry() (int, error) {
	index, err := e.slots.Allocate()
	if err == nil {
		return index, nil
	}
	for attempt := 0; attempt < 2; attempt++ {
		e.CheckAndSwap()
		index, err = e.slots.Allocate()
		if err == nil {
			return index, nil
		}
	}
	return -1, err
}

// copySlotBlocks copies the 8 blocks backing parentIndex into
// childIndex's region via the block cache.
func (e *Engine) copySlotBlocks(parentIndex, childIndex int) error {
	parentBase := blockBase(parentIndex)
	childBase := blockBase(childIndex)
	for k := 0; k < kernel.BlocksPerSlot; k++ {
		src, err := e.blocks.Acquire(parentBase + k)
		if err != nil {
			return err
		}
		dst, err := e.blocks.Acquire(childBase + k)
		if err != nil {
			src.Release()
			return err
		}
		dst.Data = src.Data
		if err := dst.Write(); err != nil {
			src.Release()
			dst.Release()
			return err
		}
		src.Release()
		dst.Release()
	}
	return nil
}

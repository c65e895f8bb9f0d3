package swapengine

import (
	"fmt"

	"github.com/shreyash0907/xv6-swap-engine/internal/kernel"
)

// SwapIn is swap_in(pgdir, va): invoked from the page-fault trap when
// the faulting PTE is non-zero and non-present. It rounds va down,
// re-walks the PTE (handling the benign "already present" race),
// decodes the slot index, allocates a frame (retrying once through
// the controller on exhaustion), reads the slot's 8 blocks into it,
// installs the new PTE, and only then frees the slot and bumps rss —
// in that order, so a crash mid-fault never leaves the slot freed
// with no live mapping to its data.
func (e *Engine) SwapIn(proc *kernel.Proc, va uint32) error {
	pageVA := va - (va % kernel.PageSize)

	pte, ok := proc.PgDir.Walk(pageVA)
	if !ok {
		return fmt.Errorf("swapengine: swap_in: %w", kernel.ErrPTEMissing)
	}
	if pte.Present() {
		return nil // benign race: another thread already faulted it in
	}
	if !pte.IsSwapped() {
		return fmt.Errorf("swapengine: swap_in: %w", kernel.ErrPTEState)
	}

	slotIndex := pte.SlotIndex()
	if slotIndex < 0 || slotIndex >= NumSlots || !e.slots.IsAllocated(slotIndex) {
		return fmt.Errorf("swapengine: swap_in: slot %d: %w", slotIndex, kernel.ErrPTEState)
	}

	frame, err := e.allocFrameWithRetry()
	if err != nil {
		return fmt.Errorf("swapengine: swap_in: %w", err)
	}

	base := blockBase(slotIndex)
	for k := 0; k < kernel.BlocksPerSlot; k++ {
		buf, err := e.blocks.Acquire(base + k)
		if err != nil {
			e.frames.FreeFrame(frame.KVA)
			return err
		}
		off := k * kernel.BlockSize
		copy(frame.Data[off:off+kernel.BlockSize], buf.Data[:])
		buf.Release()
	}

	savedFlags := e.slots.ReadFlags(slotIndex)
	newPTE := kernel.MakeFramePTE(frame.KVA, savedFlags)
	if err := proc.PgDir.Map(pageVA, newPTE); err != nil {
		e.frames.FreeFrame(frame.KVA)
		return fmt.Errorf("swapengine: swap_in: %w", err)
	}

	e.slots.Free(slotIndex)
	proc.Rss++

	return nil
}

// allocFrameWithRetry implements the NO_FRAME recovery: on
// exhaustion, invoke the adaptive controller once and retry; if still
// out of frames, surface ErrNoFrame. The controller call here must
// not itself trigger a nested reclaim — enforced by Engine's
// in-reclaim guard (see controller.go).
func (e *Engine) allocFrameWithRetry() (*kernel.Frame, error) {
	frame, err := e.frames.AllocFrame()
	if err == nil {
		return frame, nil
	}
	e.CheckAndSwap()
	return e.frames.AllocFrame()
}

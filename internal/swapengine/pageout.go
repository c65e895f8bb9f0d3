package swapengine

import (
	"fmt"

	"github.com/shreyash0907/xv6-swap-engine/internal/kernel"
)

// swapOut moves the page at (va, frame) in dir to disk. It allocates
// a slot, captures the PTE's flags, writes the frame's 8 blocks to
// disk, and only then rewrites the PTE to the swap encoding — the PTE
// is never touched before every block write is durable. On any
// failure before that point the slot is freed and the PTE is left
// untouched.
//
// The caller is responsible for releasing the frame and decrementing
// rss after a successful return — swapOut only moves bytes and
// rewrites the PTE.
func (e *Engine) swapOut(dir *kernel.PageDir, va uint32, frame *kernel.Frame) error {
	slotIndex, err := e.slots.Allocate()
	if err != nil {
		return err
	}

	pte, ok := dir.Walk(va)
	if !ok || !pte.Present() {
		e.slots.Free(slotIndex)
		return fmt.Errorf("swapengine: swap_out: %w", kernel.ErrPTEMissing)
	}

	flags := pte.Flags()
	e.slots.WriteFlags(slotIndex, flags)

	base := blockBase(slotIndex)
	for k := 0; k < kernel.BlocksPerSlot; k++ {
		buf, err := e.blocks.Acquire(base + k)
		if err != nil {
			e.slots.Free(slotIndex)
			return err
		}
		off := k * kernel.BlockSize
		copy(buf.Data[:], frame.Data[off:off+kernel.BlockSize])
		if err := buf.Write(); err != nil {
			buf.Release()
			e.slots.Free(slotIndex)
			return err
		}
		buf.Release()
	}

	if err := dir.Map(va, kernel.MakeSwapPTE(slotIndex, flags)); err != nil {
		e.slots.Free(slotIndex)
		return fmt.Errorf("swapengine: swap_out: %w", err)
	}
	dir.TLBFlush()

	return nil
}

package swapengine

import "github.com/shreyash0907/xv6-swap-engine/internal/kernel"

// SwapFreeProcess is swap_free_process(proc), invoked from exit before
// the page tables themselves are freed. It walks the user address
// range and frees the slot backing every swapped PTE. A PTE that is
// fully zero (unmapped) or present (a live frame, not a slot) is left
// alone — the frame allocator handles present pages, and an all-zero
// PTE is never a swap reference.
func (e *Engine) SwapFreeProcess(proc *kernel.Proc) {
	proc.PgDir.ForEachUser(func(va uint32, pte kernel.PTE) {
		if !pte.IsSwapped() {
			return
		}
		e.slots.Free(pte.SlotIndex())
	})
}

package swapengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyash0907/xv6-swap-engine/internal/kernel"
)

// TestForkDuplication covers fork's slot duplication: the parent's
// slot stays put, the child gets a distinct slot with identical
// bytes.
func TestForkDuplication(t *testing.T) {
	e, frames, _ := newTestEngine(t, 4, 25, 10)
	dir := kernel.NewPageDir()

	const va = 0x2000
	frame := mapUserPage(t, frames, dir, va, 0x42)
	require.NoError(t, e.swapOut(dir, va, frame))

	pte, ok := dir.Walk(va)
	require.True(t, ok)
	parentSlot := pte.SlotIndex()
	assert.Equal(t, 0, parentSlot)

	childSlot, err := e.DupSlot(parentSlot)
	require.NoError(t, err)
	assert.NotEqual(t, parentSlot, childSlot)

	assert.True(t, e.slots.IsAllocated(parentSlot))
	assert.True(t, e.slots.IsAllocated(childSlot))

	parentBytes := readSlotBytes(t, e, parentSlot)
	childBytes := readSlotBytes(t, e, childSlot)
	assert.Equal(t, parentBytes, childBytes)
}

// TestForkDuplicationRejectsFreeSlot covers DupSlot's validation step:
// a free parent index is an error, not a panic.
func TestForkDuplicationRejectsFreeSlot(t *testing.T) {
	e, _, _ := newTestEngine(t, 4, 25, 10)
	_, err := e.DupSlot(5)
	assert.ErrorIs(t, err, kernel.ErrPTEState)
}

// TestExitCleanup covers process teardown: a process with three
// swapped pages frees exactly those three slots on exit.
func TestExitCleanup(t *testing.T) {
	e, frames, _ := newTestEngine(t, 4, 25, 10)
	dir := kernel.NewPageDir()

	vas := []uint32{0x1000, 0x2000, 0x3000}
	for _, va := range vas {
		frame := mapUserPage(t, frames, dir, va, 1)
		require.NoError(t, e.swapOut(dir, va, frame))
		frames.FreeFrame(frame.KVA)
	}

	proc := &kernel.Proc{Pid: 99, State: kernel.Running, PgDir: dir, Rss: 0}

	usedSlots := make([]int, 0, 3)
	dir.ForEachUser(func(va uint32, pte kernel.PTE) {
		if pte.IsSwapped() {
			usedSlots = append(usedSlots, pte.SlotIndex())
		}
	})
	require.Len(t, usedSlots, 3)
	for _, s := range usedSlots {
		assert.True(t, e.slots.IsAllocated(s))
	}

	e.SwapFreeProcess(proc)

	for _, s := range usedSlots {
		assert.False(t, e.slots.IsAllocated(s))
	}
}

func readSlotBytes(t *testing.T, e *Engine, index int) []byte {
	t.Helper()
	base := blockBase(index)
	out := make([]byte, 0, kernel.PageSize)
	for k := 0; k < kernel.BlocksPerSlot; k++ {
		buf, err := e.blocks.Acquire(base + k)
		require.NoError(t, err)
		out = append(out, buf.Data[:]...)
		buf.Release()
	}
	return out
}

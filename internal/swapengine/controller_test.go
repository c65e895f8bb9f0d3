package swapengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyash0907/xv6-swap-engine/internal/kernel"
)

// TestAdaptiveGrowth covers two consecutive triggers with
// free<=threshold: each should grow n_swap and shrink threshold by
// the default alpha=25/beta=10, using integer arithmetic.
func TestAdaptiveGrowth(t *testing.T) {
	e, frames, procs := newTestEngine(t, 200, 25, 10)

	dir := kernel.NewPageDir()
	for i := 0; i < 20; i++ {
		mapUserPage(t, frames, dir, uint32(i*kernel.PageSize), byte(i))
	}
	procs.Add(&kernel.Proc{Pid: 1, State: kernel.Running, PgDir: dir, Rss: 20})

	// Consume frames down to a deficit below the default threshold of
	// 100 so CheckAndSwap's free<=threshold branch fires.
	held := make([]*kernel.Frame, 0)
	for frames.FreeCount() > 99 {
		f, err := frames.AllocFrame()
		require.NoError(t, err)
		held = append(held, f)
	}

	e.CheckAndSwap()
	threshold, nSwap := e.controller.Snapshot()
	assert.Equal(t, 90, threshold)
	assert.Equal(t, 5, nSwap)

	for _, f := range held {
		frames.FreeFrame(f.KVA)
	}
	for frames.FreeCount() > 80 {
		f, err := frames.AllocFrame()
		require.NoError(t, err)
		held = append(held, f)
	}

	e.CheckAndSwap()
	threshold, nSwap = e.controller.Snapshot()
	assert.Equal(t, 81, threshold)
	assert.Equal(t, 6, nSwap)
}

// TestVictimTieBreak covers rss 3,5,5 on pids 7,4,9, which must pick
// pid 4 (largest rss, then smallest pid).
func TestVictimTieBreak(t *testing.T) {
	e, _, procs := newTestEngine(t, 4, 25, 10)
	procs.Add(&kernel.Proc{Pid: 7, State: kernel.Running, PgDir: kernel.NewPageDir(), Rss: 3})
	procs.Add(&kernel.Proc{Pid: 4, State: kernel.Running, PgDir: kernel.NewPageDir(), Rss: 5})
	procs.Add(&kernel.Proc{Pid: 9, State: kernel.Running, PgDir: kernel.NewPageDir(), Rss: 5})

	victim := e.findVictimProcess()
	require.NotNil(t, victim)
	assert.Equal(t, 4, victim.Pid)
}

// TestVictimSelectionAllIdle covers the boundary where every process
// is at rss=0: there is no victim to pick.
func TestVictimSelectionAllIdle(t *testing.T) {
	e, _, procs := newTestEngine(t, 4, 25, 10)
	procs.Add(&kernel.Proc{Pid: 1, State: kernel.Running, PgDir: kernel.NewPageDir(), Rss: 0})
	procs.Add(&kernel.Proc{Pid: 2, State: kernel.Sleeping, PgDir: kernel.NewPageDir(), Rss: 0})

	assert.Nil(t, e.findVictimProcess())
}

// TestSecondChanceReset covers four present user pages all with
// ACCESSED set: the first pass finds none, the second pass (after a
// global clear) returns the lowest-VA page.
func TestSecondChanceReset(t *testing.T) {
	_, frames, _ := newTestEngine(t, 8, 25, 10)
	dir := kernel.NewPageDir()

	vas := []uint32{0x5000, 0x3000, 0x4000, 0x6000}
	for _, va := range vas {
		frame, err := frames.AllocFrame()
		require.NoError(t, err)
		pte := kernel.MakeFramePTE(frame.KVA, kernel.PTEUser|kernel.PTEWritable|kernel.PTEAccessed)
		require.NoError(t, dir.Map(va, pte))
	}

	candidate, ok := findVictimPage(dir)
	require.True(t, ok)
	assert.Equal(t, uint32(0x3000), candidate.va, "lowest VA wins after the global clear")
}

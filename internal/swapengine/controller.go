package swapengine

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Default controller tuning, matching the original kernel module's
// boot-time globals: threshold=100, n_swap=4, alpha=25, beta=10,
// limit=100.
const (
	defaultThreshold = 100
	defaultNSwap     = 4
	defaultLimit     = 100
)

// Controller holds the adaptive eviction state: the free-frame
// low-watermark, the batch size, and the clamped growth/shrink
// percentages. A single owned record guarded by its own mutex rather
// than scattered globals, exposed only through CheckAndSwap.
type Controller struct {
	mu        sync.Mutex
	threshold int
	nSwap     int
	alpha     int
	beta      int
	limit     int

	// reclaiming is the "in reclaim" guard: check_and_swap must never
	// re-enter itself via the ordinary alloc_frame path on page-in.
	// Modeled as a single process-wide flag via CompareAndSwap rather
	// than a true goroutine-local, since only one reclaim runs at a
	// time by construction (swap_out_batch considers one victim per
	// trigger).
	reclaiming atomic.Bool
}

// NewController builds the controller with the given build-time
// tunables alpha and beta; the rest of the defaults are fixed.
func NewController(alpha, beta int) *Controller {
	return &Controller{
		threshold: defaultThreshold,
		nSwap:     defaultNSwap,
		alpha:     alpha,
		beta:      beta,
		limit:     defaultLimit,
	}
}

// Snapshot returns the controller's current threshold and n_swap, for
// diagnostics and tests.
func (c *Controller) Snapshot() (threshold, nSwap int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threshold, c.nSwap
}

// CheckAndSwap is check_and_swap(): on a free-frame deficit, log,
// reclaim a batch, then shrink the threshold and grow the batch size,
// both clamped. A no-op above the watermark.
func (e *Engine) CheckAndSwap() {
	if !e.controller.reclaiming.CompareAndSwap(false, true) {
		// Already reclaiming on this call chain (e.g. swap_in's
		// alloc-frame retry racing a periodic trigger). Unbounded
		// recursion is the real risk here, not concurrent triggers,
		// so collapsing them to one in-flight reclaim at a time is
		// the simplest discipline that avoids it.
		return
	}
	defer e.controller.reclaiming.Store(false)

	free := e.frames.FreeCount()

	c := e.controller
	c.mu.Lock()
	threshold := c.threshold
	nSwap := c.nSwap
	c.mu.Unlock()

	if free > threshold {
		return
	}

	e.logger.Info(fmt.Sprintf("Current Threshold = %d, Swapping %d pages", threshold, nSwap),
		"threshold", threshold, "n_swap", nSwap, "free_frames", free)

	e.swapOutBatch(nSwap)

	c.mu.Lock()
	c.threshold = shrink(c.threshold, c.beta)
	c.nSwap = grow(c.nSwap, c.alpha, c.limit)
	c.mu.Unlock()
}

func shrink(threshold, beta int) int {
	threshold -= threshold * beta / 100
	if threshold < 1 {
		threshold = 1
	}
	return threshold
}

func grow(nSwap, alpha, limit int) int {
	nSwap += nSwap * alpha / 100
	if nSwap > limit {
		nSwap = limit
	}
	return nSwap
}

// swapOutBatch is swap_out_batch(k): pick one victim process, then
// attempt up to 2k page selections against it, evicting via swapOut
// on each hit, until k reclaims succeed or attempts run out or no
// page remains to select.
func (e *Engine) swapOutBatch(k int) {
	victim := e.findVictimProcess()
	if victim == nil {
		e.logger.Info("no victim process to swap", "n_swap", k)
		return
	}

	reclaimed := 0
	attempts := 0
	for reclaimed < k && attempts < 2*k {
		attempts++

		candidate, ok := findVictimPage(victim.PgDir)
		if !ok {
			break
		}

		frame := e.frames.Frame(candidate.frame)
		if err := e.swapOut(victim.PgDir, candidate.va, frame); err != nil {
			e.logger.Warn("swap out failed", "pid", victim.Pid, "va", candidate.va, "error", err)
			continue
		}

		victim.Rss--
		e.frames.FreeFrame(candidate.frame)
		reclaimed++
	}

	e.logger.Info("swap out batch done", "pid", victim.Pid, "reclaimed", reclaimed, "attempts", attempts)
}

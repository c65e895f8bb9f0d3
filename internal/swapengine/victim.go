package swapengine

import "github.com/shreyash0907/xv6-swap-engine/internal/kernel"

// findVictimProcess chooses the live process with the largest rss,
// tie-broken by smallest pid. Returns nil if the maximum rss is zero —
// nothing to swap. The comparison runs inside ProcTable.WithLock, so
// the table's mutex is held for the whole scan, matching findproc()'s
// ptable-mutex-held linear scan in the original kernel module; the
// lock is released again before any page I/O happens against the
// chosen victim.
func (e *Engine) findVictimProcess() *kernel.Proc {
	var victim *kernel.Proc
	e.procs.WithLock(func(procs []*kernel.Proc) {
		maxRss := 0
		for _, p := range procs {
			if p.Rss > maxRss || (p.Rss == maxRss && victim != nil && p.Pid < victim.Pid) {
				maxRss = p.Rss
				victim = p
			}
		}
	})
	return victim
}

// pageCandidate is the (frame, va) pair findVictimPage returns, or
// the zero value with ok=false for "no page found" — an explicit
// result instead of xv6's PA-0 sentinel, which collides with a valid
// frame at physical address 0.
type pageCandidate struct {
	va    uint32
	frame uint32
}

// findVictimPage implements the two-pass approximated-LRU scan: a
// first pass over ascending virtual address returns the first
// present, user, unaccessed page; if every present user page has its
// accessed bit set, clear all of them, flush the TLB, and return the
// lowest-VA present user page on a second pass.
func findVictimPage(dir *kernel.PageDir) (pageCandidate, bool) {
	var found pageCandidate
	ok := false
	dir.ForEachUser(func(va uint32, pte kernel.PTE) {
		if ok || !pte.Present() || !pte.User() {
			return
		}
		if !pte.Accessed() {
			found = pageCandidate{va: va, frame: pte.FrameNumber()}
			ok = true
		}
	})
	if ok {
		return found, true
	}

	dir.ClearAccessed()
	dir.TLBFlush()

	dir.ForEachUser(func(va uint32, pte kernel.PTE) {
		if ok || !pte.Present() || !pte.User() {
			return
		}
		found = pageCandidate{va: va, frame: pte.FrameNumber()}
		ok = true
	})
	return found, ok
}

package kernel

import "sync"

// ProcState mirrors xv6's process states; only the UNUSED exclusion
// and "live" membership matter to victim selection.
type ProcState int

const (
	Unused ProcState = iota
	Embryo
	Sleeping
	Runnable
	Running
	Zombie
)

// Proc is a process descriptor, the subset of xv6's struct proc the
// engine touches: pid, state, its address space, and rss. Rss is
// mutated only by the kernel under the process's own page-table
// ownership — callers hold ProcTable's lock only to find the proc,
// then mutate Rss directly, the way victim->rss-- happens outside
// ptable.lock in the original.
type Proc struct {
	Pid    int
	State  ProcState
	PgDir  *PageDir
	Rss    int
}

// ProcTable is the process table interface consumed by the engine: an
// iterable set of descriptors guarded by one mutex, released before
// any I/O.
type ProcTable struct {
	mu    sync.Mutex
	procs map[int]*Proc
}

// NewProcTable returns an empty process table.
func NewProcTable() *ProcTable {
	return &ProcTable{procs: make(map[int]*Proc)}
}

// Add registers a process descriptor, keyed by pid.
func (t *ProcTable) Add(p *Proc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.procs[p.Pid] = p
}

// Remove drops a process descriptor, e.g. after teardown completes.
func (t *ProcTable) Remove(pid int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.procs, pid)
}

// Get looks up a process by pid.
func (t *ProcTable) Get(pid int) (*Proc, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.procs[pid]
	return p, ok
}

// Snapshot returns a stable-ordered (by pid) copy of the live
// processes, for callers that need to scan without holding the lock
// across I/O. "Live" excludes UNUSED and pid < 1.
func (t *ProcTable) Snapshot() []*Proc {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.liveSorted()
}

// WithLock runs fn against a pid-ordered list of the live processes
// while holding the table's lock for the entire call, the way
// findproc() holds ptable.lock across its whole linear scan. fn must
// not block on I/O or call back into the table.
func (t *ProcTable) WithLock(fn func([]*Proc)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.liveSorted())
}

// liveSorted builds a pid-ordered slice of the live processes. Callers
// must hold t.mu.
func (t *ProcTable) liveSorted() []*Proc {
	out := make([]*Proc, 0, len(t.procs))
	for _, p := range t.procs {
		if p.State == Unused || p.Pid < 1 {
			continue
		}
		out = append(out, p)
	}
	// Insertion sort by pid: the table is small (NPROC-scale) and this
	// keeps victim selection's tie-break deterministic without
	// pulling in sort for what is effectively a fixed-size scan.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Pid > out[j].Pid; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

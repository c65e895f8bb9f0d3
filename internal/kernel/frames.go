package kernel

import (
	"fmt"
	"sync"
)

// Frame is a page-sized chunk of simulated physical RAM, addressed by
// its own byte slice rather than a kernel virtual address — there is
// no P2V/V2P translation to simulate here.
type Frame struct {
	KVA  uint32
	Data []byte
}

// FrameAllocator is the physical allocator interface consumed by the
// engine: alloc_frame, free_frame, and free-list length introspection
// for the adaptive controller. Its own mutex guards the free list; it
// never calls back into the engine.
type FrameAllocator struct {
	mu       sync.Mutex
	pageSize int
	free     []uint32
	frames   map[uint32][]byte
}

// NewFrameAllocator builds a fixed pool of nframes page-sized frames,
// all initially free, addressed 0..nframes-1 for simplicity.
func NewFrameAllocator(nframes, pageSize int) *FrameAllocator {
	a := &FrameAllocator{
		pageSize: pageSize,
		free:     make([]uint32, nframes),
		frames:   make(map[uint32][]byte, nframes),
	}
	for i := 0; i < nframes; i++ {
		a.free[i] = uint32(i)
		a.frames[uint32(i)] = make([]byte, pageSize)
	}
	return a
}

// AllocFrame pops a frame off the free list, or returns ErrNoFrame.
func (a *FrameAllocator) AllocFrame() (*Frame, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.free) == 0 {
		return nil, fmt.Errorf("kernel: alloc_frame: %w", ErrNoFrame)
	}
	kva := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	return &Frame{KVA: kva, Data: a.frames[kva]}, nil
}

// FreeFrame returns a frame to the free list. Idempotent would be
// unsafe here (double free corrupts the free list), so callers must
// only free a frame they currently hold — same contract as kfree.
func (a *FrameAllocator) FreeFrame(kva uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.free = append(a.free, kva)
}

// FreeCount reports the free list's length, taking the allocator's
// own mutex for the read.
func (a *FrameAllocator) FreeCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.free)
}

// Frame looks up the byte-backing of a held frame by its KVA, for
// code that learned a frame number from a PTE rather than from
// AllocFrame directly (swapOutBatch in controller.go, which gets the
// frame number from victim selection).
func (a *FrameAllocator) Frame(kva uint32) *Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &Frame{KVA: kva, Data: a.frames[kva]}
}

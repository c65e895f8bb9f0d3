package kernel

import "errors"

// Error taxonomy shared by the swap engine and its collaborators.
// These are kinds, not per-call-site messages — callers branch on
// them with errors.Is.
var (
	// ErrNoSlot means the slot table is exhausted.
	ErrNoSlot = errors.New("no free swap slot")
	// ErrNoFrame means the physical allocator's free list is empty.
	ErrNoFrame = errors.New("no free physical frame")
	// ErrPTEMissing means walk found no entry at all.
	ErrPTEMissing = errors.New("no page table entry for address")
	// ErrPTEState means the PTE exists but is in an unexpected state
	// for the requested operation (e.g. already present on page-in).
	ErrPTEState = errors.New("page table entry in unexpected state")
	// ErrIOFail marks a block I/O failure. The buffer cache is
	// assumed to retry or panic internally, but the kind is still
	// named so callers can recognize it if it surfaces.
	ErrIOFail = errors.New("block device I/O failure")
)

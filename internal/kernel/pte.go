// Package kernel simulates the collaborators the swap engine depends
// on but does not own: the page-table walker/mapper, the physical
// frame allocator, the process table, and the block buffer cache.
// A real xv6 links against C implementations of these; this module
// runs standalone, so each collaborator gets a small in-process
// simulator behind the same interface the engine calls through.
package kernel

// PTE bit layout, 32-bit: bit 0 PRESENT, bits 1-11 other flags (USER,
// ACCESSED among them), bits 12-31 the frame number (present) or slot
// index (non-present, non-zero).
const (
	PTEPresent  = 1 << 0
	PTEWritable = 1 << 1
	PTEUser     = 1 << 2
	PTEAccessed = 1 << 5

	pteFlagMask = 0xFFF
	pteAddrBits = 12
)

// PTE is a single page-table entry.
type PTE uint32

func (p PTE) Present() bool  { return p&PTEPresent != 0 }
func (p PTE) User() bool     { return p&PTEUser != 0 }
func (p PTE) Accessed() bool { return p&PTEAccessed != 0 }

// Flags returns the low 12 bits, the protection/status flags.
func (p PTE) Flags() uint32 { return uint32(p) & pteFlagMask }

// FrameNumber returns bits 12-31 when the entry is present.
func (p PTE) FrameNumber() uint32 { return uint32(p) >> pteAddrBits }

// SlotIndex returns bits 12-31 when the entry is non-present and
// non-zero, i.e. a swap encoding. Callers must check IsSwapped first.
func (p PTE) SlotIndex() int { return int(uint32(p) >> pteAddrBits) }

// IsSwapped reports whether this PTE encodes a swap slot: non-zero
// and PRESENT clear. An all-zero PTE means "unmapped", never slot 0.
func (p PTE) IsSwapped() bool { return p != 0 && !p.Present() }

// MakeSwapPTE encodes a swap reference: slot index in the high bits,
// the previous flags in the low 12 with PRESENT forced clear.
func MakeSwapPTE(slot int, flags uint32) PTE {
	return PTE(uint32(slot)<<pteAddrBits | ((flags &^ PTEPresent) & pteFlagMask))
}

// MakeFramePTE encodes a present mapping: frame number in the high
// bits, flags in the low 12 with PRESENT forced set.
func MakeFramePTE(frame uint32, flags uint32) PTE {
	return PTE(frame<<pteAddrBits | ((flags | PTEPresent) & pteFlagMask))
}

package kernel

import (
	"fmt"
	"os"
	"sync"
)

// BlockSize is the device's sector size: 512 bytes per block, 8
// blocks per page-sized slot.
const BlockSize = 512

// BlocksPerSlot is the number of contiguous blocks backing one
// page-sized swap slot.
const BlocksPerSlot = PageSize / BlockSize

// Buf is one in-flight block buffer: acquire, copy in/out, mark
// dirty+flush, release.
type Buf struct {
	dev      *BlockCache
	blockno  int
	Data     [BlockSize]byte
	dirty    bool
}

// BlockCache is the block-cache interface consumed by the engine:
// acquire/write/release against a single block device, backed here by
// a real file so disk I/O is a genuine suspension point rather than a
// pure in-memory stub. Grounded on the teacher's swapfile.bin handling
// in cmd/memoria/swap.go, which opens the backing file with
// os.OpenFile and seeks by offset; this wraps that in the
// acquire/write/release shape the engine expects.
type BlockCache struct {
	mu   sync.Mutex
	file *os.File
}

// OpenBlockCache opens (creating if absent) the backing swap file and
// grows it to hold at least nblocks blocks.
func OpenBlockCache(path string, nblocks int) (*BlockCache, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("kernel: open block cache %q: %w", path, err)
	}
	want := int64(nblocks) * BlockSize
	if info, statErr := f.Stat(); statErr == nil && info.Size() < want {
		if err := f.Truncate(want); err != nil {
			f.Close()
			return nil, fmt.Errorf("kernel: grow block cache %q: %w", path, err)
		}
	}
	return &BlockCache{file: f}, nil
}

// Close releases the backing file.
func (c *BlockCache) Close() error { return c.file.Close() }

// Acquire returns the buffer for blockno, reading its current
// contents from disk. May sleep: this is a real file read. Must never
// be called while holding the slot-table or process-table mutex.
func (c *BlockCache) Acquire(blockno int) (*Buf, error) {
	b := &Buf{dev: c, blockno: blockno}
	c.mu.Lock()
	_, err := c.file.ReadAt(b.Data[:], int64(blockno)*BlockSize)
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("kernel: acquire block %d: %w", blockno, ErrIOFail)
	}
	return b, nil
}

// Write marks buf dirty and flushes it to disk (write-through, so the
// page-out ordering guarantee — PTE rewrite only after all 8 writes
// are durable — holds without a separate flush step).
func (b *Buf) Write() error {
	b.dirty = true
	b.dev.mu.Lock()
	_, err := b.dev.file.WriteAt(b.Data[:], int64(b.blockno)*BlockSize)
	b.dev.mu.Unlock()
	if err != nil {
		return fmt.Errorf("kernel: write block %d: %w", b.blockno, ErrIOFail)
	}
	return nil
}

// Release is a no-op beyond documenting the acquire/write/release
// triple; there is no reference-counted cache here to unpin.
func (b *Buf) Release() {}

package swapengine

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shreyash0907/xv6-swap-engine/internal/kernel"
)

// newTestEngine builds an Engine with real collaborators backed by a
// temp-dir swap file, nframes physical frames, and an empty process
// table. Tests add processes and pages themselves.
func newTestEngine(t *testing.T, nframes, alpha, beta int) (*Engine, *kernel.FrameAllocator, *kernel.ProcTable) {
	path := filepath.Join(t.TempDir(), "swapfile.bin")
	blocks, err := kernel.OpenBlockCache(path, NumSlots*kernel.BlocksPerSlot)
	if err != nil {
		t.Fatalf("open block cache: %v", err)
	}
	t.Cleanup(func() { blocks.Close() })

	frames := kernel.NewFrameAllocator(nframes, kernel.PageSize)
	procs := kernel.NewProcTable()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := New(Deps{Frames: frames, Blocks: blocks, Procs: procs, Alpha: alpha, Beta: beta, Logger: logger})
	return e, frames, procs
}

// mapUserPage allocates a frame, fills it with fill, and maps it
// present+user(+writable) at va in dir, returning the frame.
func mapUserPage(t *testing.T, frames *kernel.FrameAllocator, dir *kernel.PageDir, va uint32, fill byte) *kernel.Frame {
	frame, err := frames.AllocFrame()
	if err != nil {
		t.Fatalf("alloc frame: %v", err)
	}
	for i := range frame.Data {
		frame.Data[i] = fill
	}
	pte := kernel.MakeFramePTE(frame.KVA, kernel.PTEUser|kernel.PTEWritable)
	if err := dir.Map(va, pte); err != nil {
		t.Fatalf("map page: %v", err)
	}
	return frame
}

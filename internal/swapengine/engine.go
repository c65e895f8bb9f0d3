package swapengine

import (
	"fmt"
	"log/slog"

	"github.com/shreyash0907/xv6-swap-engine/internal/kernel"
)

// Engine is the swap subsystem's entry point: the five exported
// operations (SwapInit, CheckAndSwap, SwapIn, DupSlot,
// SwapFreeProcess) plus the internal slot-table, victim-selection,
// and controller machinery they share. One Engine per boot, matching
// the single process-wide swap_area and controller globals in the
// original kernel module.
type Engine struct {
	slots      *SlotTable
	controller *Controller
	frames     *kernel.FrameAllocator
	blocks     *kernel.BlockCache
	procs      *kernel.ProcTable
	logger     *slog.Logger
}

// Deps bundles the external collaborators the engine calls through:
// the physical allocator, the block cache, and the process table. The
// page-table interface is consumed directly via *kernel.PageDir on
// each call rather than stored on the Engine, since it is
// per-process.
type Deps struct {
	Frames *kernel.FrameAllocator
	Blocks *kernel.BlockCache
	Procs  *kernel.ProcTable
	Alpha  int
	Beta   int
	Logger *slog.Logger
}

// New wires an Engine from its collaborators. It does not itself
// perform SwapInit's diagnostic log — call SwapInit once the Engine
// is constructed, mirroring the boot-time swapInit() / initialization
// split in the original kernel module.
func New(deps Deps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		slots:      NewSlotTable(),
		controller: NewController(deps.Alpha, deps.Beta),
		frames:     deps.Frames,
		blocks:     deps.Blocks,
		procs:      deps.Procs,
		logger:     logger,
	}
}

// SwapInit logs the boot diagnostic reporting the slot table is
// ready. The table is already all-free from NewSlotTable/New's zero
// values, matching swapInit()'s loop over slots that were already
// zero-initialized static storage in C.
func (e *Engine) SwapInit() {
	e.logger.Info(fmt.Sprintf("Swap area initialized with %d slots", NumSlots), "slots", NumSlots)
}

// Stats is a snapshot of controller state and the free-frame count for the
// diagnostics surface (internal/diagnostics) and for tests.
type Stats struct {
	Threshold  int
	NSwap      int
	FreeFrames int
}

// Stats reports the engine's current adaptive-controller state and
// free-frame count.
func (e *Engine) Stats() Stats {
	threshold, nSwap := e.controller.Snapshot()
	return Stats{
		Threshold:  threshold,
		NSwap:      nSwap,
		FreeFrames: e.frames.FreeCount(),
	}
}

// Command swapd boots the swap engine as a standalone process: it
// loads a JSON config, wires the engine's collaborators (frame
// allocator, block-backed swap file, process table), runs a periodic
// low-watermark hook in place of the real allocator's inline call
// to check_and_swap, and serves a diagnostics endpoint. Modeled on
// cmd/memoria/main.go's "load config, init logger, init module, run
// forever" shape from the teacher repo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shreyash0907/xv6-swap-engine/internal/config"
	"github.com/shreyash0907/xv6-swap-engine/internal/diagnostics"
	"github.com/shreyash0907/xv6-swap-engine/internal/kernel"
	"github.com/shreyash0907/xv6-swap-engine/internal/logging"
	"github.com/shreyash0907/xv6-swap-engine/internal/swapengine"
)

// statsAdapter bridges swapengine.Engine's Stats() to the shape
// diagnostics.StatsSource expects, keeping diagnostics free of a
// compile-time dependency on swapengine.
type statsAdapter struct{ engine *swapengine.Engine }

func (a statsAdapter) Stats() diagnostics.Stats {
	s := a.engine.Stats()
	return diagnostics.Stats{Threshold: s.Threshold, NSwap: s.NSwap, FreeFrames: s.FreeFrames}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <config.json>\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, "swapd")
	logger.Info("starting swapd", "config", os.Args[1])

	blocks, err := kernel.OpenBlockCache(cfg.SwapFilePath, swapengine.NumSlots*kernel.BlocksPerSlot)
	if err != nil {
		logger.Error("failed to open block cache", "error", err)
		os.Exit(1)
	}
	defer blocks.Close()

	frames := kernel.NewFrameAllocator(cfg.NumFrames, kernel.PageSize)
	procs := kernel.NewProcTable()

	engine := swapengine.New(swapengine.Deps{
		Frames: frames,
		Blocks: blocks,
		Procs:  procs,
		Alpha:  cfg.Alpha,
		Beta:   cfg.Beta,
		Logger: logger,
	})
	engine.SwapInit()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	diag := diagnostics.New(cfg.ListenAddr, statsAdapter{engine: engine}, logger)
	diagErr := make(chan error, 1)
	go func() { diagErr <- diag.ListenAndServe(ctx) }()

	go runLowWatermarkHook(ctx, engine)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-diagErr:
		if err != nil {
			logger.Error("diagnostics server exited", "error", err)
		}
	}
}

// runLowWatermarkHook stands in for the real allocator invoking
// check_and_swap on every allocation's low-water hit; a periodic tick
// is the closest a standalone daemon gets to that without a real
// allocator driving it.
func runLowWatermarkHook(ctx context.Context, engine *swapengine.Engine) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			engine.CheckAndSwap()
		}
	}
}

// Package diagnostics exposes the swap engine's live controller state
// and free-frame count over HTTP. Grounded on the teacher's
// utils.HTTPServer (net/http + encoding/json, no third-party router):
// there the server dispatched typed inter-module RPC messages to
// registered handlers; here there is only one process, so the same
// net/http/ServeMux shape is repurposed for local introspection
// instead of RPC.
package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// StatsSource is anything that can report the engine's current
// state. *swapengine.Engine does not satisfy it directly (its Stats
// returns swapengine.Stats); cmd/swapd wraps it in a small adapter, so
// diagnostics never imports swapengine and the dependency stays
// one-directional.
type StatsSource interface {
	Stats() Stats
}

// Stats mirrors swapengine.Stats; duplicated here rather than
// imported so this package has no compile-time dependency on the
// engine's internals beyond the small interface above.
type Stats struct {
	Threshold  int `json:"threshold"`
	NSwap      int `json:"n_swap"`
	FreeFrames int `json:"free_frames"`
}

// Server is a small HTTP introspection endpoint over StatsSource.
type Server struct {
	addr   string
	source StatsSource
	logger *slog.Logger
	srv    *http.Server
}

// New builds a diagnostics server bound to addr, serving source's
// stats as JSON.
func New(addr string, source StatsSource, logger *slog.Logger) *Server {
	return &Server{addr: addr, source: source, logger: logger}
}

// ListenAndServe starts serving; blocks until the context is
// cancelled or the server fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.source.Stats())
	})

	s.srv = &http.Server{Addr: s.addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("diagnostics server listening", "addr", s.addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("diagnostics: serve: %w", err)
		}
		return nil
	}
}

// Package logging sets up the module's slog logger, matching
// utils.InicializarLogger in the teacher repo: a single text handler
// on stdout, level selected from a config string, tagged with the
// module name.
package logging

import (
	"log/slog"
	"os"
)

// New builds a text-handler logger at levelName ("debug", "info",
// "warn", "error"; defaults to info on an unrecognized value) tagged
// with module.
func New(levelName, module string) *slog.Logger {
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("module", module)
}

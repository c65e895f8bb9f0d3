// Package config loads the swap daemon's JSON configuration, the way
// utils.CargarConfiguracion does in the teacher repo: read a path,
// decode straight into a typed struct, fail fast with a logged error.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the swap daemon's tunables: the adaptive controller's
// ALPHA/BETA, the number of simulated physical frames, the swap
// file's backing path, and the daemon's own log level and
// diagnostics listen address.
type Config struct {
	LogLevel     string `json:"log_level"`
	NumFrames    int    `json:"num_frames"`
	SwapFilePath string `json:"swap_file_path"`
	Alpha        int    `json:"alpha"`
	Beta         int    `json:"beta"`
	ListenAddr   string `json:"listen_addr"`
}

// Defaults returns the configuration the original kernel module boots
// with if no file is supplied: ALPHA=25, BETA=10.
func Defaults() Config {
	return Config{
		LogLevel:     "info",
		NumFrames:    4096,
		SwapFilePath: "swapfile.bin",
		Alpha:        25,
		Beta:         10,
		ListenAddr:   "127.0.0.1:9191",
	}
}

// Load reads and decodes the JSON file at path over a copy of
// Defaults, so a partial config only overrides what it sets.
func Load(path string) (Config, error) {
	cfg := Defaults()

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %q: %w", path, err)
	}
	return cfg, nil
}

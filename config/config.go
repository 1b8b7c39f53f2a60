// Package config defines the host-facing knobs for a Machine: the
// handful of toggles that change timing/observability behavior rather
// than instruction semantics, loadable from an optional TOML file.
package config

import "github.com/BurntSushi/toml"

// Config holds every setting a host can tune without touching core
// code. Zero value is the permissive default: strict timing off,
// serial transfers complete instantly, tracing off.
type Config struct {
	// StrictTiming gates VRAM/OAM bus contention during PPU modes 2/3
	// and active DMA transfers. Off by default since most test ROMs
	// don't depend on it.
	StrictTiming bool `toml:"strict_timing"`

	// SerialFixedTiming makes the serial sink complete transfers after
	// a realistic ~4096-cycle delay instead of instantly.
	SerialFixedTiming bool `toml:"serial_fixed_timing"`

	// Trace turns on Gameboy-Doctor-format trace line emission.
	Trace bool `toml:"trace"`

	// TracePath, if set, is where trace lines are written; otherwise
	// they go to the host's default writer (e.g. stdout).
	TracePath string `toml:"trace_path"`
}

// Default returns the permissive, zero-overhead configuration.
func Default() Config {
	return Config{}
}

// Load reads a TOML file at path into a Config, starting from
// Default() so fields the file omits keep their zero-overhead values.
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

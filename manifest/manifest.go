// Package manifest handles petrel.toml runtime configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
)

// Manifest represents a petrel.toml runtime configuration.
type Manifest struct {
	Heap    HeapConfig    `toml:"heap"`
	Console ConsoleConfig `toml:"console"`
	Log     LogConfig     `toml:"log"`

	// Dir is the directory containing the petrel.toml file (set at load time).
	Dir string `toml:"-"`
}

// HeapConfig sizes the runtime heap.
type HeapConfig struct {
	InitialBytes int `toml:"initial-bytes"`
	MaxBytes     int `toml:"max-bytes"`
}

// ConsoleConfig selects the debug-print sink.
type ConsoleConfig struct {
	// Target is "stdout" or "stderr".
	Target string `toml:"target"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no petrel.toml is found.
// Environment overrides still apply.
func Default() *Manifest {
	m := &Manifest{
		Heap: HeapConfig{
			InitialBytes: 64 * 1024,
			MaxBytes:     16 * 1024 * 1024,
		},
		Console: ConsoleConfig{Target: "stdout"},
		Log:     LogConfig{Verbosity: 1},
	}
	m.applyEnv()
	return m
}

// Load parses a petrel.toml file from the given directory. Environment
// overrides (PETREL_HEAP_MAX_BYTES, PETREL_LOG_VERBOSITY,
// PETREL_CONSOLE_TARGET) are applied after the file and beat its values.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "petrel.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults for fields the file left unset
	if m.Heap.InitialBytes <= 0 {
		m.Heap.InitialBytes = 64 * 1024
	}
	if m.Heap.MaxBytes <= 0 {
		m.Heap.MaxBytes = 16 * 1024 * 1024
	}
	if m.Console.Target == "" {
		m.Console.Target = "stdout"
	}

	m.applyEnv()
	return &m, nil
}

// FindAndLoad walks up from startDir to find a petrel.toml file, then loads
// and returns the manifest. Returns the defaults if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "petrel.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

// applyEnv overlays environment-variable overrides.
func (m *Manifest) applyEnv() {
	m.Heap.MaxBytes = env.Int("PETREL_HEAP_MAX_BYTES", m.Heap.MaxBytes)
	m.Log.Verbosity = env.Int("PETREL_LOG_VERBOSITY", m.Log.Verbosity)
	m.Console.Target = env.Str("PETREL_CONSOLE_TARGET", m.Console.Target)
}

// ConsoleFile resolves the configured console target to an open file.
func (m *Manifest) ConsoleFile() *os.File {
	if m.Console.Target == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

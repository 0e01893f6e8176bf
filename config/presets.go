/*
Package config stores user presets: saved list filters and date-range
shortcuts.

PURPOSE:
  The preset store is process-wide cached configuration with an explicit
  load/save lifecycle. Nothing reads it ambiently: it is constructed
  once, injected where needed, loaded from its JSON file on startup and
  written back on every change. No expiry, no watching.

FORMAT:
  A single JSON document on disk. Concurrent access is guarded by a
  mutex; Save rewrites the whole file atomically via a temp file rename.
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SavedFilter is a named filter set for a list screen.
type SavedFilter struct {
	Name   string            `json:"name"`
	Screen string            `json:"screen"` // e.g. "receivables", "work-orders"
	Fields map[string]string `json:"fields"`
}

// DateRangePreset is a named relative date range.
type DateRangePreset struct {
	Name     string `json:"name"`
	LastDays int    `json:"last_days"`
}

// Presets is the serialized document.
type Presets struct {
	Filters    []SavedFilter     `json:"filters"`
	DateRanges []DateRangePreset `json:"date_ranges"`
}

// PresetStore persists presets to a JSON file.
type PresetStore struct {
	path string

	mu      sync.RWMutex
	presets Presets
}

// NewPresetStore creates a store backed by the given file path.
// The file need not exist yet.
func NewPresetStore(path string) *PresetStore {
	return &PresetStore{path: path}
}

// Load reads the presets file. A missing file is an empty preset set,
// not an error.
func (ps *PresetStore) Load() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	data, err := os.ReadFile(ps.path)
	if os.IsNotExist(err) {
		ps.presets = Presets{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}
	var p Presets
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse presets %s: %w", ps.path, err)
	}
	ps.presets = p
	return nil
}

// Get returns a copy of the current presets.
func (ps *PresetStore) Get() Presets {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	p := Presets{
		Filters:    append([]SavedFilter(nil), ps.presets.Filters...),
		DateRanges: append([]DateRangePreset(nil), ps.presets.DateRanges...),
	}
	return p
}

// Replace swaps the full preset set and writes it to disk.
func (ps *PresetStore) Replace(p Presets) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.presets = p
	return ps.saveLocked()
}

func (ps *PresetStore) saveLocked() error {
	data, err := json.MarshalIndent(ps.presets, "", "  ")
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}

	// Write-then-rename so a crash never leaves a truncated file.
	tmp := ps.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(ps.path), 0o755); err != nil {
		return fmt.Errorf("save presets: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("save presets: %w", err)
	}
	if err := os.Rename(tmp, ps.path); err != nil {
		return fmt.Errorf("save presets: %w", err)
	}
	return nil
}

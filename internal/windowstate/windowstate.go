// Package windowstate persists the main window's position and size
// between restarts. Coordinates are absolute screen coordinates so the
// window comes back on the same monitor.
package windowstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	fileName = "window-state.json"

	minWidth  = 400
	minHeight = 300
)

type State struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid rejects sizes a minimised or not-yet-visible window reports.
func (s State) Valid() bool {
	return s.Width >= minWidth && s.Height >= minHeight
}

// Path returns the state file location inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, fileName)
}

// Load reads saved state. Returns nil if the file is missing, unreadable
// or holds a nonsensical size.
func Load(dataDir string) *State {
	data, err := os.ReadFile(Path(dataDir))
	if err != nil {
		return nil
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if !s.Valid() {
		return nil
	}
	return &s
}

// Save writes s to dataDir. Invalid sizes are skipped without error.
func Save(dataDir string, s State) error {
	if !s.Valid() {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(Path(dataDir), data, 0644); err != nil {
		return fmt.Errorf("windowstate: %w", err)
	}
	return nil
}

// Sizer is the part of a window needed to capture its state.
type Sizer interface {
	Size() (width, height int)
	Position() (x, y int)
}

// Capture reads the current geometry of w.
func Capture(w Sizer) State {
	width, height := w.Size()
	x, y := w.Position()
	return State{X: x, Y: y, Width: width, Height: height}
}

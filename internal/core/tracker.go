// ABOUTME: Change tracker persisting the set of already-ingested files
// ABOUTME: Computes the delta between files on disk and previously recorded ones
package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// ProcessedFileSet holds absolute paths of files already ingested.
type ProcessedFileSet map[string]struct{}

// Contains reports membership after normalizing the path to absolute form.
func (s ProcessedFileSet) Contains(path string) bool {
	_, ok := s[normalizePath(path)]
	return ok
}

// Add inserts the path, normalized to absolute form.
func (s ProcessedFileSet) Add(path string) {
	s[normalizePath(path)] = struct{}{}
}

// Paths returns the sorted member paths.
func (s ProcessedFileSet) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// trackerState is the on-disk shape of the processed-file record.
type trackerState struct {
	Version int      `json:"version"`
	SavedAt string   `json:"saved_at"`
	Files   []string `json:"files"`
}

// Tracker reads and writes the processed-file record.
type Tracker struct {
	statePath string
}

// NewTracker creates a tracker over the given state file path.
func NewTracker(statePath string) *Tracker {
	return &Tracker{statePath: statePath}
}

// StatePath returns the record's location.
func (t *Tracker) StatePath() string {
	return t.statePath
}

// Load reads the persisted set. An absent or corrupt record returns an
// empty set: re-ingesting is preferred over losing new files.
func (t *Tracker) Load() ProcessedFileSet {
	set := make(ProcessedFileSet)

	data, err := os.ReadFile(t.statePath)
	if err != nil {
		return set
	}

	var state trackerState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Debug("processed-file record unreadable, starting fresh", "path", t.statePath, "err", err)
		return set
	}

	for _, path := range state.Files {
		set.Add(path)
	}
	return set
}

// Save overwrites the persisted record via temp file + rename.
func (t *Tracker) Save(set ProcessedFileSet) error {
	state := trackerState{
		Version: 1,
		SavedAt: time.Now().Format(time.RFC3339),
		Files:   set.Paths(),
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding processed-file record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(t.statePath), 0755); err != nil {
		return fmt.Errorf("creating record directory: %w", err)
	}

	tmp := t.statePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing processed-file record: %w", err)
	}
	if err := os.Rename(tmp, t.statePath); err != nil {
		return fmt.Errorf("committing processed-file record: %w", err)
	}
	return nil
}

// Clear removes the persisted record.
func (t *Tracker) Clear() error {
	if err := os.Remove(t.statePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing processed-file record: %w", err)
	}
	return nil
}

// Diff returns the current files not yet in the processed set. Both sides
// are normalized to absolute paths so relative-path drift between runs
// neither re-ingests unchanged files nor misses new ones.
func (t *Tracker) Diff(current []string, processed ProcessedFileSet) []string {
	var newFiles []string
	for _, path := range current {
		if !processed.Contains(path) {
			newFiles = append(newFiles, path)
		}
	}
	return newFiles
}

func normalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

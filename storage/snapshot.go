// Package storage persists scrape results as immutable JSON snapshots, one
// file per scrape, named by timestamp and doctor.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-reviews/models"
)

// Everything but letters, digits, whitespace, underscores and hyphens is
// stripped from doctor names before they become filenames.
var nonNameChars = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)

// SnapshotStore writes one JSON file per scrape result into a data
// directory. Files are never rewritten; every scrape gets its own snapshot.
type SnapshotStore struct {
	dir string
	now func() time.Time
}

// NewSnapshotStore builds a store rooted at dir. The directory is created
// lazily on the first save.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir, now: time.Now}
}

// Save writes result as pretty-printed UTF-8 JSON and returns the file path.
// Results without reviews are persisted too; an empty profile is still a
// valid outcome worth keeping.
func (s *SnapshotStore) Save(result *models.ScrapeResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("nothing to save")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}

	doctorName := "unknown_doctor"
	if result.DoctorName != nil {
		doctorName = *result.DoctorName
	}
	name := fmt.Sprintf("%s_%s.json", s.now().Format("20060102_150405"), SlugifyName(doctorName))
	path := filepath.Join(s.dir, name)

	// Write to a temp file and rename so a failure mid-write never leaves a
	// truncated snapshot behind.
	f, err := os.CreateTemp(s.dir, name+".tmp")
	if err != nil {
		return "", fmt.Errorf("create snapshot file: %w", err)
	}
	if err := encodeSnapshot(f, result); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("publish snapshot: %w", err)
	}
	return path, nil
}

func encodeSnapshot(f *os.File, result *models.ScrapeResult) error {
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

// SlugifyName normalizes a doctor name into a filename-safe slug. An empty
// or unusable name falls back to a fixed placeholder.
func SlugifyName(name string) string {
	cleaned := nonNameChars.ReplaceAllString(name, "")
	cleaned = strings.ToLower(strings.Join(strings.Fields(cleaned), "_"))
	if cleaned == "" {
		return "unknown_doctor"
	}
	return cleaned
}

package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Entry is one manifest line: a display name and the remote source URL.
type Entry struct {
	Name string `json:"video_name"`
	URL  string `json:"video_url"`
}

// Valid reports whether the entry carries both required fields. Invalid
// entries are counted and skipped, never fatal.
func (e Entry) Valid() bool {
	return e.Name != "" && e.URL != ""
}

// LoadManifest reads a JSON manifest of videos to ingest.
func LoadManifest(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return entries, nil
}

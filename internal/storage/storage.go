package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/seattle-events/internal/event"
)

const (
	// DefaultDataDir is where stage snapshots live unless configured
	// otherwise.
	DefaultDataDir = "~/.local/share/seattle-events"

	linksFile   = "links.json"
	detailsFile = "details.json"
)

// Storage handles persistence of pipeline stage snapshots.
type Storage struct {
	dataDir string
}

// New creates a Storage instance rooted at dataDir, creating the directory
// if needed.
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// SaveLinks writes the discovered detail-page URLs as one snapshot.
func (s *Storage) SaveLinks(links []string) error {
	return s.writeJSON(linksFile, links)
}

// LoadLinks reads the link snapshot written by the discovery stage.
func (s *Storage) LoadLinks() ([]string, error) {
	var links []string
	if err := s.readJSON(linksFile, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// SaveDetails writes the parsed and enriched detail records as one
// snapshot.
func (s *Storage) SaveDetails(records []*event.Record) error {
	return s.writeJSON(detailsFile, records)
}

// LoadDetails reads the detail snapshot written by the parse stage.
func (s *Storage) LoadDetails() ([]*event.Record, error) {
	var records []*event.Record
	if err := s.readJSON(detailsFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Storage) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, name), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (s *Storage) readJSON(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no %s snapshot; run the earlier stage first: %w", name, err)
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

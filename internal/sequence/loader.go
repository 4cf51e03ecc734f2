package sequence

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// Marshal encodes a sequence as indented JSON.
func Marshal(s *Sequence) ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sequence: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a sequence and fills in missing root lists.
func Unmarshal(data []byte) (*Sequence, error) {
	var s Sequence
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse sequence JSON: %w", err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("sequence has no id")
	}
	s.normalize()
	return &s, nil
}

// LoadFile loads a sequence from a JSON file.
func LoadFile(path string) (*Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence file: %w", err)
	}
	return Unmarshal(data)
}

// SaveFile writes the sequence to path through a temp file and rename so a
// watcher never observes a half-written file.
func SaveFile(path string, s *Sequence) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sequence-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write sequence file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write sequence file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace sequence file: %w", err)
	}
	return nil
}

// MarshalItems encodes a list of items, e.g. for the clipboard.
func MarshalItems(items []*Item) ([]byte, error) {
	return json.Marshal(items)
}

// UnmarshalItems decodes a list of items. Malformed input yields nil.
func UnmarshalItems(data []byte) []*Item {
	var items []*Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	for _, it := range items {
		if it == nil {
			return nil
		}
	}
	return items
}

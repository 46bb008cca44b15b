package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"airguide/internal/content"
)

// JSONPoolStore persists the pool as a JSON array of records.
// A missing file loads as an empty pool.
type JSONPoolStore struct {
	path string
}

// NewJSONPoolStore returns a pool store writing to path.
func NewJSONPoolStore(path string) *JSONPoolStore {
	return &JSONPoolStore{path: path}
}

// Load reads the pool document. Missing file is not an error.
func (s *JSONPoolStore) Load() ([]content.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pool %s: %w", s.path, err)
	}
	var records []content.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse pool %s: %w", s.path, err)
	}
	return records, nil
}

// Save writes the pool atomically via a temp file rename.
func (s *JSONPoolStore) Save(records []content.Record) error {
	if records == nil {
		records = []content.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pool: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

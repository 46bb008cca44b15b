package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
)

// JSONCooldownStore persists cooldown state as a JSON document with the
// external schema channel_id -> { catalog_id: "YYYY-MM-DD" }. Catalog
// ids are object keys, so they round-trip as strings.
type JSONCooldownStore struct {
	path string
}

// NewJSONCooldownStore returns a cooldown store writing to path.
func NewJSONCooldownStore(path string) *JSONCooldownStore {
	return &JSONCooldownStore{path: path}
}

// Load reads the cooldown document. Missing file loads as empty state.
func (s *JSONCooldownStore) Load() (Cooldowns, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(Cooldowns), nil
		}
		return nil, fmt.Errorf("read cooldowns %s: %w", s.path, err)
	}
	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse cooldowns %s: %w", s.path, err)
	}
	cooldowns := make(Cooldowns, len(raw))
	for channelID, items := range raw {
		for key, date := range items {
			catalogID, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parse cooldown catalog id %q: %w", key, err)
			}
			cooldowns.Mark(channelID, catalogID, date)
		}
	}
	return cooldowns, nil
}

// Save writes the cooldown document atomically.
func (s *JSONCooldownStore) Save(cooldowns Cooldowns) error {
	raw := make(map[string]map[string]string, len(cooldowns))
	for channelID, items := range cooldowns {
		encoded := make(map[string]string, len(items))
		for catalogID, date := range items {
			encoded[strconv.FormatInt(catalogID, 10)] = date
		}
		raw[channelID] = encoded
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cooldowns: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// Close is a no-op for the JSON backend.
func (s *JSONCooldownStore) Close() error { return nil }

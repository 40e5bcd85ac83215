package throttle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileEntry is the on-disk shape of one cooldown entry.
type fileEntry struct {
	Pair      string    `json:"pair"`
	Direction string    `json:"direction"`
	SentAt    time.Time `json:"sent_at"`
}

// FileStore persists cooldown entries to a JSON state file, rewriting the
// whole file on every save. Fine at this scale: a handful of pairs times two
// directions.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries map[Key]time.Time
}

// NewFileStore creates a store backed by the given path. A missing file is
// treated as an empty store.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, entries: make(map[Key]time.Time)}
}

func (f *FileStore) Load() (map[Key]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var list []fileEntry
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse throttle state: %w", err)
	}
	out := make(map[Key]time.Time, len(list))
	for _, e := range list {
		key := Key{Pair: e.Pair, Direction: e.Direction}
		f.entries[key] = e.SentAt
		out[key] = e.SentAt
	}
	return out, nil
}

func (f *FileStore) Save(key Key, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[key] = sentAt
	list := make([]fileEntry, 0, len(f.entries))
	for k, t := range f.entries {
		list = append(list, fileEntry{Pair: k.Pair, Direction: k.Direction, SentAt: t})
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(f.path, data, 0644)
}

func (f *FileStore) Close() error { return nil }

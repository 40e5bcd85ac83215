package throttle

import "time"

// MemoryStore keeps cooldown entries only for the lifetime of the process.
type MemoryStore struct{}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load() (map[Key]time.Time, error) { return nil, nil }
func (m *MemoryStore) Save(_ Key, _ time.Time) error    { return nil }
func (m *MemoryStore) Close() error                     { return nil }

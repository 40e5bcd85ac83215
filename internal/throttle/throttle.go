package throttle

import (
	"log"
	"sync"
	"time"
)

// Key identifies one cooldown slot: alerts for the same pair and trend
// direction share a slot.
type Key struct {
	Pair      string
	Direction string
}

// Store persists cooldown entries across process runs. Implementations must
// tolerate an empty backing store on first use.
type Store interface {
	Load() (map[Key]time.Time, error)
	Save(key Key, sentAt time.Time) error
	Close() error
}

// Throttle enforces a minimum elapsed time between two alerts of the same
// kind for the same pair. ShouldSend and Record are separate calls so that a
// dispatch that fails at every sink can choose not to arm the cooldown.
// Safe for concurrent use across pairs.
type Throttle struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     map[Key]time.Time
	store    Store
}

// New creates a Throttle backed by the given store, loading any persisted
// entries. A load failure falls back to an empty cache with a warning: a
// stale cooldown is preferable to refusing to run.
func New(cooldown time.Duration, store Store) *Throttle {
	last, err := store.Load()
	if err != nil {
		log.Printf("[WARN] throttle: load persisted entries: %v, starting empty", err)
		last = make(map[Key]time.Time)
	}
	if last == nil {
		last = make(map[Key]time.Time)
	}
	return &Throttle{cooldown: cooldown, last: last, store: store}
}

// ShouldSend reports whether an alert for (pair, direction) may go out at
// now: true iff no prior dispatch exists for the key or the cooldown has
// elapsed since the last one.
func (t *Throttle) ShouldSend(pair, direction string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.last[Key{Pair: pair, Direction: direction}]
	if !ok {
		return true
	}
	return now.Sub(last) >= t.cooldown
}

// Record arms the cooldown for (pair, direction) at now. Called by the
// dispatcher only after at least one sink accepted the alert.
func (t *Throttle) Record(pair, direction string, now time.Time) error {
	key := Key{Pair: pair, Direction: direction}
	t.mu.Lock()
	t.last[key] = now
	t.mu.Unlock()
	return t.store.Save(key, now)
}

// Close releases the backing store.
func (t *Throttle) Close() error {
	return t.store.Close()
}

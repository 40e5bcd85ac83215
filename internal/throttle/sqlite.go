package throttle

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists cooldown entries to a SQLite database so that the
// cooldown survives process restarts.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS throttle_entries (
		pair      TEXT NOT NULL,
		direction TEXT NOT NULL,
		sent_at   INTEGER NOT NULL,
		PRIMARY KEY (pair, direction)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite throttle store opened: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() (map[Key]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT pair, direction, sent_at FROM throttle_entries`)
	if err != nil {
		return nil, fmt.Errorf("load throttle entries: %w", err)
	}
	defer rows.Close()

	out := make(map[Key]time.Time)
	for rows.Next() {
		var pair, direction string
		var sentAt int64
		if err := rows.Scan(&pair, &direction, &sentAt); err != nil {
			return nil, fmt.Errorf("scan throttle entry: %w", err)
		}
		out[Key{Pair: pair, Direction: direction}] = time.Unix(sentAt, 0).UTC()
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Save(key Key, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO throttle_entries (pair, direction, sent_at)
		VALUES (?, ?, ?)
		ON CONFLICT(pair, direction) DO UPDATE SET sent_at = excluded.sent_at`,
		key.Pair, key.Direction, sentAt.Unix())
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

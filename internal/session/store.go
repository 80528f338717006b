package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store persists the single session record at a fixed location.
//
// Concurrent invocations race over the record with last-writer-wins
// semantics: losing a declaration degrades to a stricter state, which is
// the safe direction, so no locking or optimistic-concurrency check is
// used.
type Store struct {
	path              string
	inactivityTimeout time.Duration
	absoluteTimeout   time.Duration
}

// NewStore creates a store for the record at path with the given timeouts.
func NewStore(path string, inactivity, absolute time.Duration) *Store {
	return &Store{
		path:              path,
		inactivityTimeout: inactivity,
		absoluteTimeout:   absolute,
	}
}

// Load returns the current session record, applying the timeout rule.
// A record past either threshold is replaced by a fresh one, so state
// cannot leak across unrelated conversations. A missing or unparseable
// record is treated the same way: corruption resets context, it never
// denies service.
func (s *Store) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.reset()
		}
		return nil, fmt.Errorf("session: read record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return s.reset()
	}

	now := time.Now().UTC()
	if now.Sub(rec.LastActivity) > s.inactivityTimeout {
		return s.reset()
	}
	if now.Sub(rec.SessionStarted) > s.absoluteTimeout {
		return s.reset()
	}

	return &rec, nil
}

// Save persists the record atomically, stamping last_activity to now.
func (s *Store) Save(rec *Record) error {
	rec.LastActivity = time.Now().UTC()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("session: create state directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("session: write record: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("session: replace record: %w", err)
	}
	return nil
}

// reset creates, persists, and returns a fresh record.
func (s *Store) reset() (*Record, error) {
	rec := NewRecord()
	if err := s.Save(rec); err != nil {
		// Persisting the fresh record is best-effort; the caller still
		// gets a usable record even on a read-only filesystem.
		return rec, nil
	}
	return rec, nil
}

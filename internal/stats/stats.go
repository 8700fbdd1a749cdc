// Package stats maintains the bot's usage counters in a flat JSON file with
// daily and monthly rollover. The file is read fully and rewritten fully on
// every update; the whole load-modify-save cycle runs under a single mutex so
// concurrent handlers cannot lose increments.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

const dateLayout = "2006-01-02"

// Snapshot mirrors the on-disk counter file: request counts for the current
// day and month, every user id ever seen, and the rollover bookkeeping.
type Snapshot struct {
	Daily      int     `json:"daily"`
	Monthly    int     `json:"monthly"`
	Users      []int64 `json:"users"`
	LastUpdate string  `json:"last_update"`
	LastMonth  int     `json:"last_month"`
}

// Report renders the three-line usage summary shown to the administrator.
func (s Snapshot) Report() string {
	return fmt.Sprintf(
		"Статистика использования:\nЗапросов за сегодня: %d\nЗапросов за месяц: %d\nУникальных пользователей: %d",
		s.Daily, s.Monthly, len(s.Users))
}

// Store persists usage counters to a single JSON file. A missing file is
// treated as zero counters; the process is assumed to be the file's only
// owner.
type Store struct {
	mu   sync.Mutex
	log  *slog.Logger
	path string
	now  func() time.Time
}

// New creates a Store backed by the given file path.
func New(log *slog.Logger, path string) *Store {
	return &Store{
		log:  log.With("component", "stats"),
		path: path,
		now:  time.Now,
	}
}

// RecordHit registers one service use by the given user: it applies the
// daily/monthly rollover, increments both counters, adds the user to the
// all-time set, and writes the file back durably as one unit.
func (s *Store) RecordHit(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}

	now := s.now()
	today := now.Format(dateLayout)
	month := int(now.Month())

	if snap.LastUpdate != today {
		snap.Daily = 0
		snap.LastUpdate = today
	}
	if snap.LastMonth != month {
		snap.Monthly = 0
		snap.LastMonth = month
	}

	snap.Daily++
	snap.Monthly++
	if !slices.Contains(snap.Users, userID) {
		snap.Users = append(snap.Users, userID)
	}

	if err := s.save(snap); err != nil {
		return err
	}

	s.log.Debug("Recorded usage hit", "user_id", userID, "daily", snap.Daily, "monthly", snap.Monthly)
	return nil
}

// Snapshot returns the current durable state without mutating it. Rollover is
// applied only on writes, matching the counter file's lifecycle.
func (s *Store) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *Store) load() (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to read stats file %s: %w", s.path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse stats file %s: %w", s.path, err)
	}
	return snap, nil
}

// save rewrites the whole file through a temp file and rename so a crash
// mid-write never leaves a truncated counter file behind.
func (s *Store) save(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".stats-*")
	if err != nil {
		return fmt.Errorf("failed to create temp stats file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close stats file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace stats file: %w", err)
	}
	return nil
}

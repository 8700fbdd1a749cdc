package stats

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T, at time.Time) *Store {
	t.Helper()

	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), filepath.Join(t.TempDir(), "stats.json"))
	s.now = func() time.Time { return at }
	return s
}

func TestRecordHitCountsAndUsers(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	for _, userID := range []int64{42, 42} {
		if err := s.RecordHit(userID); err != nil {
			t.Fatalf("RecordHit: %v", err)
		}
	}

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Daily != 2 || snap.Monthly != 2 {
		t.Errorf("got daily=%d monthly=%d, want 2/2", snap.Daily, snap.Monthly)
	}
	if len(snap.Users) != 1 {
		t.Errorf("got %d users, want 1", len(snap.Users))
	}

	if err := s.RecordHit(43); err != nil {
		t.Fatalf("RecordHit: %v", err)
	}
	snap, _ = s.Snapshot()
	if snap.Daily != 3 || len(snap.Users) != 2 {
		t.Errorf("got daily=%d users=%d, want 3/2", snap.Daily, len(snap.Users))
	}
}

func TestDayRolloverPreservesMonthAndUsers(t *testing.T) {
	t.Parallel()

	yesterday := time.Date(2025, 6, 14, 23, 0, 0, 0, time.UTC)
	s := newTestStore(t, yesterday)

	for range 3 {
		if err := s.RecordHit(1); err != nil {
			t.Fatalf("RecordHit: %v", err)
		}
	}

	s.now = func() time.Time { return time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC) }
	if err := s.RecordHit(2); err != nil {
		t.Fatalf("RecordHit: %v", err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Daily != 1 {
		t.Errorf("daily = %d after day rollover, want 1", snap.Daily)
	}
	if snap.Monthly != 4 {
		t.Errorf("monthly = %d, want 4 (same month preserved)", snap.Monthly)
	}
	if len(snap.Users) != 2 {
		t.Errorf("users = %d, want 2 (set is never pruned)", len(snap.Users))
	}
	if snap.LastUpdate != "2025-06-15" {
		t.Errorf("last_update = %q", snap.LastUpdate)
	}
}

func TestMonthRollover(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC))
	if err := s.RecordHit(1); err != nil {
		t.Fatalf("RecordHit: %v", err)
	}

	s.now = func() time.Time { return time.Date(2025, 6, 1, 0, 30, 0, 0, time.UTC) }
	if err := s.RecordHit(1); err != nil {
		t.Fatalf("RecordHit: %v", err)
	}

	snap, _ := s.Snapshot()
	if snap.Daily != 1 || snap.Monthly != 1 {
		t.Errorf("got daily=%d monthly=%d after month rollover, want 1/1", snap.Daily, snap.Monthly)
	}
	if snap.LastMonth != 6 {
		t.Errorf("last_month = %d, want 6", snap.LastMonth)
	}
}

func TestConcurrentHitsAreSerialized(t *testing.T) {
	t.Parallel()

	const n = 50
	s := newTestStore(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.RecordHit(int64(i % 10)); err != nil {
				t.Errorf("RecordHit: %v", err)
			}
		}()
	}
	wg.Wait()

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Daily != n {
		t.Errorf("daily = %d, want %d (lost increments)", snap.Daily, n)
	}
	if len(snap.Users) != 10 {
		t.Errorf("users = %d, want 10", len(snap.Users))
	}
}

func TestFileFormat(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	if err := s.RecordHit(7); err != nil {
		t.Fatalf("RecordHit: %v", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("reading stats file: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("stats file is not valid JSON: %v", err)
	}
	for _, key := range []string{"daily", "monthly", "users", "last_update", "last_month"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("stats file missing %q field", key)
		}
	}
	if raw["last_update"] != "2025-06-15" {
		t.Errorf("last_update = %v", raw["last_update"])
	}
	if raw["last_month"] != float64(6) {
		t.Errorf("last_month = %v", raw["last_month"])
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	snap := Snapshot{Daily: 3, Monthly: 17, Users: []int64{1, 2, 3, 4}}
	want := "Статистика использования:\nЗапросов за сегодня: 3\nЗапросов за месяц: 17\nУникальных пользователей: 4"
	if got := snap.Report(); got != want {
		t.Errorf("Report() = %q, want %q", got, want)
	}
}

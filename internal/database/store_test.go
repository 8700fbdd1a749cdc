package database_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/domainwatch/twistbot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSaveAndListLookups(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, domain := range []string{"first.com", "second.com", "third.com"} {
		lookup := &database.Lookup{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UserID:    100 + int64(i),
			Username:  "user",
			Domain:    domain,
			Results:   i * 5,
			Status:    database.LookupStatusOK,
		}
		if err := store.SaveLookup(ctx, lookup); err != nil {
			t.Fatalf("SaveLookup(%s): %v", domain, err)
		}
		if lookup.ID == 0 {
			t.Errorf("SaveLookup(%s) did not set ID", domain)
		}
	}

	lookups, err := store.RecentLookups(ctx, 2)
	if err != nil {
		t.Fatalf("RecentLookups: %v", err)
	}
	if len(lookups) != 2 {
		t.Fatalf("got %d lookups, want 2", len(lookups))
	}
	if lookups[0].Domain != "third.com" || lookups[1].Domain != "second.com" {
		t.Errorf("unexpected order: %q, %q", lookups[0].Domain, lookups[1].Domain)
	}
}

func TestSaveLookupValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveLookup(ctx, nil); err == nil {
		t.Error("expected error for nil lookup")
	}
	if err := store.SaveLookup(ctx, &database.Lookup{UserID: 1}); err == nil {
		t.Error("expected error for empty domain")
	}
}

func TestSaveFeedback(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	fb := &database.Feedback{UserID: 7, Username: "someone", Content: "отличный бот"}
	if err := store.SaveFeedback(ctx, fb); err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}
	if fb.ID == 0 {
		t.Error("SaveFeedback did not set ID")
	}
	if fb.CreatedAt.IsZero() {
		t.Error("SaveFeedback did not default CreatedAt")
	}

	if err := store.SaveFeedback(ctx, &database.Feedback{UserID: 7}); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestDeleteLookupsBefore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, lookup := range []*database.Lookup{
		{CreatedAt: old, UserID: 1, Domain: "old.com", Status: database.LookupStatusOK},
		{CreatedAt: recent, UserID: 1, Domain: "recent.com", Status: database.LookupStatusOK},
	} {
		if err := store.SaveLookup(ctx, lookup); err != nil {
			t.Fatalf("SaveLookup: %v", err)
		}
	}

	deleted, err := store.DeleteLookupsBefore(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DeleteLookupsBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	remaining, err := store.RecentLookups(ctx, 10)
	if err != nil {
		t.Fatalf("RecentLookups: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Domain != "recent.com" {
		t.Errorf("unexpected remaining entries: %+v", remaining)
	}
}

func TestRunMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.RunMaintenance(context.Background()); err != nil {
		t.Fatalf("RunMaintenance: %v", err)
	}
}

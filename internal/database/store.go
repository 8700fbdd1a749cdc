package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the journal's data access operations.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveLookup inserts one domain-analysis journal entry.
	SaveLookup(ctx context.Context, lookup *Lookup) error

	// SaveFeedback inserts one relayed feedback message.
	SaveFeedback(ctx context.Context, feedback *Feedback) error

	// RecentLookups returns the most recent journal entries, newest first.
	RecentLookups(ctx context.Context, limit int) ([]Lookup, error)

	// DeleteLookupsBefore removes journal entries older than the cutoff and
	// returns how many were deleted.
	DeleteLookupsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunMaintenance reclaims space and refreshes planner statistics.
	RunMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *sqlx.DB, log *slog.Logger) Store {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{db: db, log: log.With("component", "store")}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveLookup(ctx context.Context, lookup *Lookup) error {
	if lookup == nil {
		return fmt.Errorf("cannot save nil lookup")
	}
	if lookup.Domain == "" {
		return fmt.Errorf("lookup must have a non-empty domain")
	}
	if lookup.CreatedAt.IsZero() {
		lookup.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO lookups (created_at, user_id, username, domain, results, status)
        VALUES (:created_at, :user_id, :username, :domain, :results, :status);
    `
	result, err := s.db.NamedExecContext(ctx, query, lookup)
	if err != nil {
		return fmt.Errorf("failed to save lookup for %q: %w", lookup.Domain, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		lookup.ID = uint(id)
	}

	s.log.DebugContext(ctx, "Lookup journaled", "domain", lookup.Domain, "user_id", lookup.UserID)
	return nil
}

func (s *sqlxStore) SaveFeedback(ctx context.Context, feedback *Feedback) error {
	if feedback == nil {
		return fmt.Errorf("cannot save nil feedback")
	}
	if feedback.Content == "" {
		return fmt.Errorf("feedback must have non-empty content")
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO feedback (created_at, user_id, username, content)
        VALUES (:created_at, :user_id, :username, :content);
    `
	result, err := s.db.NamedExecContext(ctx, query, feedback)
	if err != nil {
		return fmt.Errorf("failed to save feedback from user %d: %w", feedback.UserID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		feedback.ID = uint(id)
	}

	s.log.DebugContext(ctx, "Feedback journaled", "user_id", feedback.UserID)
	return nil
}

func (s *sqlxStore) RecentLookups(ctx context.Context, limit int) ([]Lookup, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	var lookups []Lookup
	query := `
        SELECT id, created_at, user_id, username, domain, results, status
        FROM lookups
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &lookups, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query recent lookups: %w", err)
	}
	return lookups, nil
}

func (s *sqlxStore) DeleteLookupsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM lookups WHERE created_at < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old lookups: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted lookups: %w", err)
	}

	if deleted > 0 {
		s.log.InfoContext(ctx, "Deleted old journal entries", "count", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	for _, stmt := range []string{"VACUUM;", "ANALYZE;"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("maintenance statement %q failed: %w", stmt, err)
		}
	}
	return nil
}

package database

import "time"

// Lookup is one journaled domain-analysis request.
type Lookup struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
	Domain   string `db:"domain"`
	Results  int    `db:"results"`
	Status   string `db:"status"`
}

// Lookup journal statuses.
const (
	LookupStatusOK    = "ok"
	LookupStatusError = "error"
)

// Feedback is one user feedback message relayed to the administrator.
type Feedback struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
	Content  string `db:"content"`
}

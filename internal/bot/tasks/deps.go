// Package tasks implements the bot's scheduled background tasks.
package tasks

import (
	"log/slog"

	"github.com/domainwatch/twistbot/internal/config"
	"github.com/domainwatch/twistbot/internal/database"
)

// TaskDeps contains the dependencies available to scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}

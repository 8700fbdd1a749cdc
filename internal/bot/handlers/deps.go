package handlers

import (
	"log/slog"

	"github.com/domainwatch/twistbot/internal/config"
	"github.com/domainwatch/twistbot/internal/database"
	"github.com/domainwatch/twistbot/internal/router"
	"github.com/domainwatch/twistbot/internal/telegram"
)

// HandlerDeps provides dependencies for Telegram handlers. The struct is
// shared by pointer so the default handler can be wired as a bot option
// before the sender and router exist.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	Router *router.Router
	Sender *telegram.Sender
}

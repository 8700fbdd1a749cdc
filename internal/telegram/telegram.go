// Package telegram handles Telegram transport setup: bot construction,
// handler registration, keyboard markup, and chunked outbound delivery.
package telegram

import (
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
)

// RegisteredHandler bundles a handler with its registration pattern and
// middleware.
type RegisteredHandler struct {
	HandlerType bot.HandlerType
	Pattern     string
	Handler     bot.HandlerFunc
	Middleware  []bot.Middleware
	MatchType   bot.MatchType
}

// New creates a Telegram bot instance using the go-telegram/bot library.
func New(token string, log *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created")
	return b, nil
}

// RegisterHandlers registers the given handlers with the bot instance,
// applying each handler's middleware. Middleware are applied in reverse
// order so the first one in the slice is the outermost.
func RegisterHandlers(b *bot.Bot, log *slog.Logger, handlers map[string]RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}

	for name, h := range handlers {
		if h.Handler == nil {
			log.Warn("Skipping registration of nil handler", "name", name)
			continue
		}

		final := h.Handler
		for i := len(h.Middleware) - 1; i >= 0; i-- {
			final = h.Middleware[i](final)
		}

		b.RegisterHandler(h.HandlerType, h.Pattern, h.MatchType, final)
		log.Debug("Registered handler", "name", name, "pattern", h.Pattern)
	}

	log.Info("Registered Telegram handlers", "count", len(handlers))
	return nil
}

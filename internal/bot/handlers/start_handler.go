package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/domainwatch/twistbot/internal/router"
)

// NewStartHandler returns a handler for the /start command. It routes
// through the same conversational router as everything else so the greeting
// and keyboard logic live in one place.
func NewStartHandler(deps *HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "start")

		msg := update.Message
		if msg == nil || msg.From == nil {
			log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
			return
		}

		log.InfoContext(ctx, "Handling /start command", "chat_id", msg.Chat.ID, "user_id", msg.From.ID)

		inbound := router.InboundMessage{
			UserID:      msg.From.ID,
			ChatID:      msg.Chat.ID,
			DisplayName: displayName(msg.From),
			Username:    msg.From.Username,
			Text:        msg.Text,
		}
		if err := deps.Router.Route(ctx, inbound); err != nil {
			log.ErrorContext(ctx, "Failed to send welcome message", "error", err, "chat_id", msg.Chat.ID)
		}
	}
}

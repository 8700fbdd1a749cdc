package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/domainwatch/twistbot/internal/router"
)

// NewMessageHandler returns the default handler: every non-command message
// (menu labels, feedback replies, free-text domain submissions) is adapted
// into an InboundMessage and handed to the conversational router.
func NewMessageHandler(deps *HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "message")

		msg := update.Message
		if msg == nil || msg.From == nil || msg.Text == "" {
			log.DebugContext(ctx, "Ignoring update without a text message", "update_id", update.ID)
			return
		}

		inbound := router.InboundMessage{
			UserID:      msg.From.ID,
			ChatID:      msg.Chat.ID,
			DisplayName: displayName(msg.From),
			Username:    msg.From.Username,
			Text:        msg.Text,
		}
		if msg.ReplyToMessage != nil {
			inbound.ReplyToText = msg.ReplyToMessage.Text
		}

		if err := deps.Router.Route(ctx, inbound); err != nil {
			log.ErrorContext(ctx, "Failed to deliver reply",
				"error", err, "chat_id", msg.Chat.ID, "user_id", msg.From.ID)
		}
	}
}

func displayName(u *models.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return name
}

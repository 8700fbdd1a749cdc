package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const recentLookupsLimit = 20

// NewRecentHandler returns a handler for the /dw_recent command: an
// admin-only listing of the latest journaled analysis requests. Requires the
// AdminOnly middleware.
func NewRecentHandler(deps *HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "recent")

		msg := update.Message
		if msg == nil || msg.From == nil {
			log.WarnContext(ctx, "Recent handler received update with nil message or sender", "update_id", update.ID)
			return
		}

		lookups, err := deps.Store.RecentLookups(ctx, recentLookupsLimit)
		if err != nil {
			log.ErrorContext(ctx, "Failed to read recent lookups", "error", err)
			if sendErr := deps.Sender.Send(ctx, msg.Chat.ID, deps.Config.Telegram.Messages.GeneralError); sendErr != nil {
				log.ErrorContext(ctx, "Failed to send error message", "error", sendErr)
			}
			return
		}

		if len(lookups) == 0 {
			if err := deps.Sender.Send(ctx, msg.Chat.ID, "Журнал запросов пуст."); err != nil {
				log.ErrorContext(ctx, "Failed to send empty-journal message", "error", err)
			}
			return
		}

		var b2 strings.Builder
		b2.WriteString("Последние запросы:\n")
		for _, l := range lookups {
			fmt.Fprintf(&b2, "%s — %s (%d, %s)\n",
				l.CreatedAt.Format("2006-01-02 15:04"), l.Domain, l.Results, l.Status)
		}

		if err := deps.Sender.Send(ctx, msg.Chat.ID, b2.String()); err != nil {
			log.ErrorContext(ctx, "Failed to send recent lookups", "error", err, "chat_id", msg.Chat.ID)
		}
	}
}

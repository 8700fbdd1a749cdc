package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/domainwatch/twistbot/internal/telegram"
)

// RegisterAllCommands returns the bot's command handlers. Free-text messages
// (menu labels, feedback replies, domain submissions) are not listed here;
// they reach the default handler registered as a bot option.
func RegisterAllCommands(deps *HandlerDeps) map[string]telegram.RegisteredHandler {
	handlers := make(map[string]telegram.RegisteredHandler)

	handlers["/start"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	handlers["/dw_recent"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "dw_recent",
		Handler:     NewRecentHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  []tgbot.Middleware{AdminOnly(deps)},
	}

	return handlers
}

package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/domainwatch/twistbot/internal/config"
)

// MessageLimit is Telegram's hard per-message character ceiling.
const MessageLimit = 4096

// API is the slice of the bot client the sender needs. *bot.Bot satisfies it.
type API interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Sender delivers outbound text, splitting anything over MessageLimit into
// consecutive segments sent strictly in order. Segment boundaries are purely
// positional; no attempt is made to avoid splitting mid-word. If one segment
// fails to send, the remaining segments are dropped and the error surfaces
// to the caller.
type Sender struct {
	log *slog.Logger
	api API
	cfg *config.TelegramConfig
}

// NewSender creates a Sender on top of the given bot API.
func NewSender(log *slog.Logger, api API, cfg *config.TelegramConfig) *Sender {
	return &Sender{
		log: log.With("component", "sender"),
		api: api,
		cfg: cfg,
	}
}

// Send delivers text to a chat with no reply markup.
func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	return s.send(ctx, chatID, text, nil)
}

// SendMenu delivers text together with the main reply keyboard for the user.
func (s *Sender) SendMenu(ctx context.Context, chatID, userID int64, text string) error {
	return s.send(ctx, chatID, text, MainKeyboard(s.cfg, userID))
}

// SendForceReply delivers text requesting a direct reply from the user.
func (s *Sender) SendForceReply(ctx context.Context, chatID int64, text string) error {
	return s.send(ctx, chatID, text, &models.ForceReply{ForceReply: true})
}

func (s *Sender) send(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error {
	if text == "" {
		return nil
	}

	for start := 0; start < len(text); {
		end := min(start+MessageLimit, len(text))
		// Back off to a rune boundary; a segment that cuts a multi-byte
		// character in half is not valid UTF-8 and gets rejected by the API.
		if end < len(text) {
			for end > start && !utf8.RuneStart(text[end]) {
				end--
			}
		}

		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      text[start:end],
			ParseMode: models.ParseModeHTML,
		}
		// Markup rides on the first segment only; repeating it would stack
		// keyboard updates on the client.
		if start == 0 {
			params.ReplyMarkup = markup
		}

		if _, err := s.api.SendMessage(ctx, params); err != nil {
			s.log.ErrorContext(ctx, "Failed to send message segment",
				"chat_id", chatID, "offset", start, "error", err)
			return fmt.Errorf("failed to send segment at offset %d: %w", start, err)
		}

		start = end
	}

	return nil
}

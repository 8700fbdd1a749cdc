package telegram

import (
	"github.com/go-telegram/bot/models"

	"github.com/domainwatch/twistbot/internal/config"
)

// MainKeyboard builds the persistent reply keyboard for a user. The stats
// row is shown only to the administrator.
func MainKeyboard(cfg *config.TelegramConfig, userID int64) *models.ReplyKeyboardMarkup {
	rows := [][]models.KeyboardButton{
		{{Text: cfg.Buttons.CheckDomain}},
		{{Text: cfg.Buttons.Feedback}},
	}
	if userID == cfg.AdminUserID {
		rows = append(rows, []models.KeyboardButton{{Text: cfg.Buttons.Stats}})
	}

	return &models.ReplyKeyboardMarkup{
		Keyboard:       rows,
		ResizeKeyboard: true,
	}
}

package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/GRIBbI/telegram-assistant-bot/internal/config"
	"github.com/GRIBbI/telegram-assistant-bot/internal/dialog"
	"github.com/GRIBbI/telegram-assistant-bot/internal/telegram"
)

// renderEffects delivers the state machine's outbound effects to the chat,
// attaching the keyboard each effect asks for. Rendering failures are logged
// and skipped; one undeliverable message must not wedge the conversation.
func renderEffects(ctx context.Context, b *bot.Bot, cfg *config.Config, log *slog.Logger, chatID int64, effects []dialog.Effect) {
	for _, eff := range effects {
		params := &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        eff.Text,
			ReplyMarkup: markupFor(eff, cfg),
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			log.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
		}
	}
}

func markupFor(eff dialog.Effect, cfg *config.Config) models.ReplyMarkup {
	switch eff.Keyboard {
	case dialog.KeyboardMainMenu:
		return telegram.MainMenuKeyboard(cfg.Buttons)
	case dialog.KeyboardSkip:
		return telegram.SkipKeyboard(cfg.Buttons)
	case dialog.KeyboardConfirm:
		return telegram.ConfirmKeyboard(cfg.Buttons)
	case dialog.KeyboardCalendar:
		return telegram.CalendarKeyboard(eff.Month)
	case dialog.KeyboardTimeOptions:
		return telegram.TimeOptionsKeyboard(cfg.Buttons.TimePresets, cfg.Buttons.CustomTime)
	default:
		return nil
	}
}

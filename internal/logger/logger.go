// Package logger provides structured logging for the bot.
// It uses Go's slog package with configurable levels and formats.
package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// New creates a new slog Logger with the specified level and format.
// If jsonOutput is true, logs are formatted as JSON, otherwise as text.
func New(levelStr string, jsonOutput bool) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// Middleware creates a logging middleware for the Telegram bot.
// It logs each incoming update with its kind, chat, and processing duration.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()

			logEntry := log.With("update_id", update.ID)

			var updateType string
			switch {
			case update.Message != nil:
				updateType = "message"
				logEntry = logEntry.With(
					"message_id", update.Message.ID,
					"chat_id", update.Message.Chat.ID,
					"text_preview", truncateString(update.Message.Text, 50),
				)
				if update.Message.From != nil {
					logEntry = logEntry.With("user_id", update.Message.From.ID)
				}
			case update.CallbackQuery != nil:
				updateType = "callback_query"
				logEntry = logEntry.With(
					"callback_query_id", update.CallbackQuery.ID,
					"user_id", update.CallbackQuery.From.ID,
					"data", update.CallbackQuery.Data,
				)
				if update.CallbackQuery.Message.Message != nil {
					logEntry = logEntry.With(
						"chat_id", update.CallbackQuery.Message.Message.Chat.ID,
						"message_accessible", true,
					)
				} else if update.CallbackQuery.Message.InaccessibleMessage != nil {
					logEntry = logEntry.With(
						"chat_id", update.CallbackQuery.Message.InaccessibleMessage.Chat.ID,
						"message_accessible", false,
					)
				}
			default:
				updateType = "other"
			}
			logEntry = logEntry.With("update_type", updateType)

			logEntry.InfoContext(ctx, "Processing update")

			next(ctx, b, update)

			logEntry.InfoContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

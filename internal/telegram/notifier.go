package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-telegram/bot"
)

// Notifier delivers reminder messages through the Telegram bot. It satisfies
// the reminder scheduler's notification contract. The bot instance is bound
// after construction: the scheduler needs a notifier before the transport
// exists, and the transport's handlers need the scheduler's task manager.
type Notifier struct {
	mu     sync.RWMutex
	bot    *bot.Bot
	logger *slog.Logger
}

// NewNotifier creates an unbound reminder delivery adapter.
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger: logger.With("component", "telegram_notifier"),
	}
}

// Bind attaches the bot instance. Must be called before any reminder can
// fire, i.e. before the scheduler is started or rehydrated.
func (n *Notifier) Bind(b *bot.Bot) {
	n.mu.Lock()
	n.bot = b
	n.mu.Unlock()
}

// Notify sends a plain text message to a chat.
func (n *Notifier) Notify(ctx context.Context, chatID int64, text string) error {
	n.mu.RLock()
	b := n.bot
	n.mu.RUnlock()

	if b == nil {
		return fmt.Errorf("notifier is not bound to a bot instance")
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		n.logger.ErrorContext(ctx, "Failed to send notification", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to notify chat %d: %w", chatID, err)
	}
	return nil
}

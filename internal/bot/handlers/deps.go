// Package handlers contains the Telegram update handlers: the transport
// boundary where raw updates are deduplicated, decoded into dialogue events,
// run through the state machine, and its effects rendered back as messages.
package handlers

import (
	"log/slog"

	"github.com/GRIBbI/telegram-assistant-bot/internal/config"
	"github.com/GRIBbI/telegram-assistant-bot/internal/dialog"
)

// Deps provides dependencies for Telegram update handlers.
type Deps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Sessions *dialog.Sessions
	Machine  *dialog.Machine
}

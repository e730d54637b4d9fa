package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/GRIBbI/telegram-assistant-bot/internal/telegram"
)

// RegisterAll initializes and returns the map of explicitly registered
// handlers: the inline-keyboard callbacks. Text messages (including /start)
// flow through the default handler attached as a bot option at construction.
func RegisterAll(deps Deps) map[string]telegram.RegisteredHandler {
	handlers := make(map[string]telegram.RegisteredHandler)

	handlers["calendar_callback"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     telegram.CalendarPrefix,
		Handler:     NewCalendarHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["time_callback"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     telegram.TimePrefix,
		Handler:     NewTimeHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}

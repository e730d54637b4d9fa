package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/GRIBbI/telegram-assistant-bot/internal/dialog"
	"github.com/GRIBbI/telegram-assistant-bot/internal/telegram"
)

// NewCalendarHandler returns the handler for calendar inline-keyboard taps.
// Month navigation is pure presentation: it edits the picker message in
// place without touching dialogue state. Only a completed day selection is
// dispatched into the state machine.
func NewCalendarHandler(deps Deps) bot.HandlerFunc {
	return calendarHandler{deps}.Handle
}

type calendarHandler struct {
	deps Deps
}

func (h calendarHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "calendar")

	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	answerCallback(ctx, b, cq.ID, log)

	msg := cq.Message.Message
	if msg == nil {
		log.WarnContext(ctx, "Calendar callback for inaccessible message", "update_id", update.ID)
		return
	}
	chatID := msg.Chat.ID

	sess := h.deps.Sessions.Get(chatID)
	if sess.Seen(update.ID) {
		log.DebugContext(ctx, "Dropping redelivered update", "update_id", update.ID, "chat_id", chatID)
		return
	}

	cb, err := telegram.DecodeCalendarCallback(cq.Data, h.deps.Config.Location())
	if err != nil {
		log.WarnContext(ctx, "Undecodable calendar callback", "data", cq.Data, "error", err)
		return
	}

	switch cb.Action {
	case telegram.CalendarNoop:
		return

	case telegram.CalendarNavigate:
		_, err := b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
			ChatID:      chatID,
			MessageID:   msg.ID,
			ReplyMarkup: telegram.CalendarKeyboard(cb.Month),
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to render calendar month", "chat_id", chatID, "error", err)
		}
		return

	case telegram.CalendarSelectDay:
		sess.Lock()
		effects := h.deps.Machine.Handle(ctx, sess, dialog.DateEvent{Date: cb.Day})
		sess.Unlock()
		renderEffects(ctx, b, h.deps.Config, log, chatID, effects)
	}
}

// NewTimeHandler returns the handler for time-picker inline-keyboard taps.
func NewTimeHandler(deps Deps) bot.HandlerFunc {
	return timeHandler{deps}.Handle
}

type timeHandler struct {
	deps Deps
}

func (h timeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "time")

	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	answerCallback(ctx, b, cq.ID, log)

	msg := cq.Message.Message
	if msg == nil {
		log.WarnContext(ctx, "Time callback for inaccessible message", "update_id", update.ID)
		return
	}
	chatID := msg.Chat.ID

	sess := h.deps.Sessions.Get(chatID)
	if sess.Seen(update.ID) {
		log.DebugContext(ctx, "Dropping redelivered update", "update_id", update.ID, "chat_id", chatID)
		return
	}

	value, custom, err := telegram.DecodeTimeCallback(cq.Data)
	if err != nil {
		log.WarnContext(ctx, "Undecodable time callback", "data", cq.Data, "error", err)
		return
	}

	var ev dialog.Event
	if custom {
		ev = dialog.CustomTimeEvent{}
	} else {
		ev = dialog.TimePresetEvent{Value: value}
	}

	sess.Lock()
	effects := h.deps.Machine.Handle(ctx, sess, ev)
	sess.Unlock()

	renderEffects(ctx, b, h.deps.Config, log, chatID, effects)
}

func answerCallback(ctx context.Context, b *bot.Bot, callbackID string, log *slog.Logger) {
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to answer callback query", "error", err)
	}
}

package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/GRIBbI/telegram-assistant-bot/internal/config"
	"github.com/GRIBbI/telegram-assistant-bot/internal/dialog"
)

// NewMessageHandler returns the default handler for text messages, including
// the /start command. It is the single entry point of the dialogue: dedup
// first, then the per-chat lock, then decode and dispatch into the state
// machine.
func NewMessageHandler(deps Deps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps Deps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	if update.Message == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	sess := h.deps.Sessions.Get(chatID)
	if sess.Seen(update.ID) {
		log.DebugContext(ctx, "Dropping redelivered update", "update_id", update.ID, "chat_id", chatID)
		return
	}

	effects, ok := dispatchText(ctx, h.deps.Machine, sess, update.Message.Text, h.deps.Config.Buttons)
	if !ok {
		log.DebugContext(ctx, "Ignoring unrecognized command", "chat_id", chatID)
		return
	}

	renderEffects(ctx, b, h.deps.Config, log, chatID, effects)
}

// dispatchText decodes a text message and runs it through the state machine
// under the session lock. The lock covers the decode too: decoding reads the
// session state to resolve context-sensitive labels, and a concurrent handler
// for the same chat may be mutating it.
func dispatchText(ctx context.Context, machine *dialog.Machine, sess *dialog.Session, text string, buttons config.ButtonsConfig) ([]dialog.Effect, bool) {
	sess.Lock()
	defer sess.Unlock()

	ev, ok := decodeMessageEvent(text, sess.State(), buttons)
	if !ok {
		return nil, false
	}
	return machine.Handle(ctx, sess, ev), true
}

// decodeMessageEvent turns raw message text into a tagged dialogue event.
// Menu labels always decode to MenuEvent, mirroring how the transport's
// reply keyboard shadows free text; context-sensitive labels (skip, yes/no)
// are only recognized in the state that rendered them. Unknown commands
// decode to nothing at all.
func decodeMessageEvent(text string, state dialog.State, buttons config.ButtonsConfig) (dialog.Event, bool) {
	trimmed := strings.TrimSpace(text)

	if trimmed == "/start" || strings.HasPrefix(trimmed, "/start ") {
		return dialog.StartEvent{}, true
	}
	if strings.HasPrefix(trimmed, "/") {
		return nil, false
	}

	switch trimmed {
	case buttons.AddTask:
		return dialog.MenuEvent{Choice: dialog.MenuAddTask}, true
	case buttons.ListTasks:
		return dialog.MenuEvent{Choice: dialog.MenuListTasks}, true
	case buttons.DeleteTask:
		return dialog.MenuEvent{Choice: dialog.MenuDeleteTask}, true
	case buttons.ClearAll:
		return dialog.MenuEvent{Choice: dialog.MenuClearAll}, true
	case buttons.Assistant:
		return dialog.MenuEvent{Choice: dialog.MenuAssistant}, true
	}

	if state == dialog.StateAddingDescription && trimmed == buttons.Skip {
		return dialog.SkipEvent{}, true
	}

	if state == dialog.StateConfirmingDelete {
		if strings.EqualFold(trimmed, buttons.Yes) {
			return dialog.TextEvent{Text: "yes"}, true
		}
		if strings.EqualFold(trimmed, buttons.No) {
			return dialog.TextEvent{Text: "no"}, true
		}
	}

	return dialog.TextEvent{Text: text}, true
}

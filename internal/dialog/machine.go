package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/GRIBbI/telegram-assistant-bot/internal/apperrors"
	"github.com/GRIBbI/telegram-assistant-bot/internal/config"
	"github.com/GRIBbI/telegram-assistant-bot/internal/database"
)

// untitledPlaceholder is stored when the user submits an empty title.
const untitledPlaceholder = "Untitled"

// timePattern accepts exactly 24-hour HH:MM. Anything else is a recoverable
// validation failure, never a crash.
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// TaskService is what the state machine needs from the task lifecycle
// manager. Implemented by task.Manager.
type TaskService interface {
	Create(ctx context.Context, chatID int64, title string, description *string, deadline *time.Time) (database.Task, error)
	List(ctx context.Context, chatID int64) ([]database.Task, error)
	Delete(ctx context.Context, chatID int64, ids []int64) (int, error)
	ClearAll(ctx context.Context, chatID int64) error
}

// Assistant is the optional free-form Q&A backend.
type Assistant interface {
	Respond(ctx context.Context, text string) (string, error)
}

// Machine drives a chat's conversation: given the chat's session and one
// decoded event it mutates the session state and returns the outbound
// effects. Callers must hold the session lock for the duration of Handle.
type Machine struct {
	logger    *slog.Logger
	tasks     TaskService
	assistant Assistant // nil when no backend is configured
	msgs      config.MessagesConfig
	loc       *time.Location
}

// NewMachine creates a conversation state machine. assistant may be nil,
// in which case the assistant menu entry answers with a fixed notice.
func NewMachine(logger *slog.Logger, tasks TaskService, assistant Assistant, msgs config.MessagesConfig, loc *time.Location) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Machine{
		logger:    logger.With("component", "dialog_machine"),
		tasks:     tasks,
		assistant: assistant,
		msgs:      msgs,
		loc:       loc,
	}
}

// Handle applies one event to the session and returns the effects to send.
func (m *Machine) Handle(ctx context.Context, sess *Session, ev Event) []Effect {
	log := m.logger.With("chat_id", sess.ChatID(), "state", sess.state.String())

	// /start resets any state, parked or mid-dialogue.
	if _, ok := ev.(StartEvent); ok {
		sess.reset()
		log.InfoContext(ctx, "Conversation reset by /start")
		return []Effect{{Text: m.msgs.Welcome, Keyboard: KeyboardMainMenu}}
	}

	// A menu press while mid-dialogue is rejected without touching state.
	if _, ok := ev.(MenuEvent); ok && sess.state != StateIdle {
		log.DebugContext(ctx, "Menu press rejected mid-dialogue")
		return []Effect{{Text: m.msgs.UseMenu}}
	}

	switch sess.state {
	case StateIdle:
		return m.handleIdle(ctx, sess, ev, log)
	case StateAddingTitle:
		return m.handleAddingTitle(ctx, sess, ev, log)
	case StateAddingDescription:
		return m.handleAddingDescription(ctx, sess, ev, log)
	case StatePickingDate:
		return m.handlePickingDate(ctx, sess, ev, log)
	case StatePickingTime:
		return m.handlePickingTime(ctx, sess, ev, log)
	case StateAwaitingDeleteTargets:
		return m.handleAwaitingDeleteTargets(ctx, sess, ev, log)
	case StateConfirmingDelete:
		return m.handleConfirmingDelete(ctx, sess, ev, log)
	case StateAssistantChat:
		return m.handleAssistantChat(ctx, sess, ev, log)
	default:
		log.ErrorContext(ctx, "Session in unknown state, resetting")
		sess.reset()
		return []Effect{{Text: m.msgs.GeneralError, Keyboard: KeyboardMainMenu}}
	}
}

func (m *Machine) handleIdle(ctx context.Context, sess *Session, ev Event, log *slog.Logger) []Effect {
	switch e := ev.(type) {
	case MenuEvent:
		switch e.Choice {
		case MenuAddTask:
			sess.state = StateAddingTitle
			return []Effect{{Text: m.msgs.TitlePrompt}}

		case MenuListTasks:
			tasks, err := m.tasks.List(ctx, sess.ChatID())
			if err != nil {
				return m.storageFailure(ctx, sess, err, log)
			}
			return []Effect{{Text: m.renderTaskList(tasks), Keyboard: KeyboardMainMenu}}

		case MenuDeleteTask:
			tasks, err := m.tasks.List(ctx, sess.ChatID())
			if err != nil {
				return m.storageFailure(ctx, sess, err, log)
			}
			if len(tasks) == 0 {
				return []Effect{{Text: m.msgs.ListEmpty, Keyboard: KeyboardMainMenu}}
			}
			sess.state = StateAwaitingDeleteTargets
			return []Effect{
				{Text: m.renderTaskList(tasks)},
				{Text: m.msgs.DeletePrompt},
			}

		case MenuClearAll:
			if err := m.tasks.ClearAll(ctx, sess.ChatID()); err != nil {
				return m.storageFailure(ctx, sess, err, log)
			}
			return []Effect{{Text: m.msgs.ClearDone, Keyboard: KeyboardMainMenu}}

		case MenuAssistant:
			if m.assistant == nil {
				return []Effect{{Text: m.msgs.AssistantDown, Keyboard: KeyboardMainMenu}}
			}
			sess.state = StateAssistantChat
			return []Effect{{Text: m.msgs.AssistantPrompt}}
		}

	case TextEvent, SkipEvent:
		// Stray text outside a dialogue: point back at the menu.
		return []Effect{{Text: m.msgs.MenuPrompt, Keyboard: KeyboardMainMenu}}

	case DateEvent, TimePresetEvent, CustomTimeEvent:
		// Stale callback from a finished dialogue, e.g. a replayed keyboard
		// tap after the task was already saved. Nothing to do.
		log.DebugContext(ctx, "Ignoring stale picker callback in idle state")
		return nil
	}

	return nil
}

func (m *Machine) handleAddingTitle(ctx context.Context, sess *Session, ev Event, log *slog.Logger) []Effect {
	text, ok := eventText(ev)
	if !ok {
		return []Effect{{Text: m.msgs.TitlePrompt}}
	}

	title := strings.TrimSpace(text)
	if title == "" {
		title = untitledPlaceholder
	}
	sess.draftTitle = title
	sess.state = StateAddingDescription
	log.DebugContext(ctx, "Stored draft title")
	return []Effect{{Text: m.msgs.DescriptionPrompt, Keyboard: KeyboardSkip}}
}

func (m *Machine) handleAddingDescription(ctx context.Context, sess *Session, ev Event, log *slog.Logger) []Effect {
	switch e := ev.(type) {
	case SkipEvent:
		sess.hasDescription = false
	case TextEvent:
		desc := strings.TrimSpace(e.Text)
		if desc == "" {
			sess.hasDescription = false
		} else {
			sess.draftDescription = desc
			sess.hasDescription = true
		}
	default:
		return []Effect{{Text: m.msgs.DescriptionPrompt, Keyboard: KeyboardSkip}}
	}

	sess.state = StatePickingDate
	log.DebugContext(ctx, "Stored draft description", "skipped", !sess.hasDescription)
	return []Effect{{Text: m.msgs.DatePrompt, Keyboard: KeyboardCalendar, Month: time.Now().In(m.loc)}}
}

func (m *Machine) handlePickingDate(ctx context.Context, sess *Session, ev Event, log *slog.Logger) []Effect {
	d, ok := ev.(DateEvent)
	if !ok {
		// Text while the calendar is open: show the calendar again.
		return []Effect{{Text: m.msgs.DatePrompt, Keyboard: KeyboardCalendar, Month: time.Now().In(m.loc)}}
	}

	sess.draftDate = d.Date
	sess.state = StatePickingTime
	log.DebugContext(ctx, "Stored draft deadline date", "date", d.Date.Format("2006-01-02"))
	return []Effect{{Text: m.msgs.TimePrompt, Keyboard: KeyboardTimeOptions}}
}

func (m *Machine) handlePickingTime(ctx context.Context, sess *Session, ev Event, log *slog.Logger) []Effect {
	switch e := ev.(type) {
	case CustomTimeEvent:
		return []Effect{{Text: m.msgs.CustomTimePrompt}}

	case TimePresetEvent:
		return m.finalizeTask(ctx, sess, e.Value, log)

	case TextEvent:
		value := strings.TrimSpace(e.Text)
		if !timePattern.MatchString(value) {
			log.DebugContext(ctx, "Rejected malformed time input")
			return []Effect{{Text: m.msgs.InvalidTime}}
		}
		return m.finalizeTask(ctx, sess, value, log)

	default:
		return []Effect{{Text: m.msgs.TimePrompt, Keyboard: KeyboardTimeOptions}}
	}
}

// finalizeTask combines the draft date with an HH:MM value, persists the
// task, and resets the conversation. hhmm must already be validated.
func (m *Machine) finalizeTask(ctx context.Context, sess *Session, hhmm string, log *slog.Logger) []Effect {
	if sess.draftDate.IsZero() {
		// Unreachable via the menu path, but a corrupt task must never be
		// saved on a missing draft field.
		err := apperrors.NewMissingContextError("draft deadline date missing when finalizing task")
		log.ErrorContext(ctx, "Aborting task finalization", "error", err)
		sess.reset()
		return []Effect{{Text: m.msgs.GeneralError, Keyboard: KeyboardMainMenu}}
	}

	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		log.DebugContext(ctx, "Rejected malformed time input", "error", err)
		return []Effect{{Text: m.msgs.InvalidTime}}
	}

	deadline := time.Date(
		sess.draftDate.Year(), sess.draftDate.Month(), sess.draftDate.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, m.loc,
	)

	var description *string
	if sess.hasDescription {
		d := sess.draftDescription
		description = &d
	}

	created, err := m.tasks.Create(ctx, sess.ChatID(), sess.draftTitle, description, &deadline)
	if err != nil {
		return m.storageFailure(ctx, sess, err, log)
	}

	title := created.Title
	sess.reset()
	log.InfoContext(ctx, "Task saved", "task_id", created.ID, "deadline", deadline)
	return []Effect{{Text: fmt.Sprintf(m.msgs.TaskSaved, title), Keyboard: KeyboardMainMenu}}
}

func (m *Machine) handleAwaitingDeleteTargets(ctx context.Context, sess *Session, ev Event, log *slog.Logger) []Effect {
	text, ok := eventText(ev)
	if !ok {
		return []Effect{{Text: m.msgs.DeletePrompt}}
	}

	ids, err := parseIDList(text)
	if err != nil {
		log.DebugContext(ctx, "Rejected malformed id list", "error", err)
		return []Effect{{Text: m.msgs.InvalidIDs}}
	}

	sess.pendingDeleteIDs = ids
	sess.state = StateConfirmingDelete
	return []Effect{{Text: fmt.Sprintf(m.msgs.ConfirmDelete, len(ids)), Keyboard: KeyboardConfirm}}
}

func (m *Machine) handleConfirmingDelete(ctx context.Context, sess *Session, ev Event, log *slog.Logger) []Effect {
	text, _ := eventText(ev)

	if !strings.EqualFold(strings.TrimSpace(text), "yes") {
		sess.reset()
		log.InfoContext(ctx, "Deletion cancelled")
		return []Effect{{Text: m.msgs.DeleteCancelled, Keyboard: KeyboardMainMenu}}
	}

	ids := sess.pendingDeleteIDs
	deleted, err := m.tasks.Delete(ctx, sess.ChatID(), ids)
	if err != nil {
		return m.storageFailure(ctx, sess, err, log)
	}

	sess.reset()
	log.InfoContext(ctx, "Deleted tasks", "requested", len(ids), "deleted", deleted)
	return []Effect{{Text: fmt.Sprintf(m.msgs.DeleteDone, deleted), Keyboard: KeyboardMainMenu}}
}

func (m *Machine) handleAssistantChat(ctx context.Context, sess *Session, ev Event, log *slog.Logger) []Effect {
	text, ok := eventText(ev)
	if !ok {
		return []Effect{{Text: m.msgs.AssistantPrompt}}
	}

	answer, err := m.assistant.Respond(ctx, text)
	sess.reset()
	if err != nil {
		log.ErrorContext(ctx, "Assistant request failed", "error", err)
		return []Effect{{Text: m.msgs.AssistantDown, Keyboard: KeyboardMainMenu}}
	}

	return []Effect{{Text: answer, Keyboard: KeyboardMainMenu}}
}

// storageFailure resets the conversation so a broken store never leaves a
// chat parked mid-dialogue, and surfaces a generic notice.
func (m *Machine) storageFailure(ctx context.Context, sess *Session, err error, log *slog.Logger) []Effect {
	log.ErrorContext(ctx, "Task store operation failed", "error", err)
	sess.reset()
	return []Effect{{Text: m.msgs.GeneralError, Keyboard: KeyboardMainMenu}}
}

// renderTaskList formats a chat's tasks for display.
func (m *Machine) renderTaskList(tasks []database.Task) string {
	if len(tasks) == 0 {
		return m.msgs.ListEmpty
	}

	var b strings.Builder
	b.WriteString(m.msgs.ListHeader)
	for _, t := range tasks {
		b.WriteString(fmt.Sprintf("\n%d. %s", t.ID, t.Title))
		if t.Description.Valid {
			b.WriteString(" - " + t.Description.String)
		}
		if t.Deadline.Valid {
			b.WriteString(" (due " + t.Deadline.Time.In(m.loc).Format("2006-01-02 15:04") + ")")
		}
	}
	return b.String()
}

// parseIDList parses a comma-separated id list. Every token must be numeric.
func parseIDList(text string) ([]int64, error) {
	parts := strings.Split(text, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			return nil, apperrors.NewValidationError("empty id token", nil)
		}
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid id %q", token), err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("no ids given", nil)
	}
	return ids, nil
}

// eventText extracts the text of a TextEvent, or "" and false otherwise.
func eventText(ev Event) (string, bool) {
	if t, ok := ev.(TextEvent); ok {
		return t.Text, true
	}
	return "", false
}

// Package dialog implements the per-chat conversation state machine, the
// keyed conversation store behind it, and the duplicate-update filter.
// The package is pure decision logic: it consumes decoded events and emits
// outbound effects, leaving all Telegram rendering to the transport layer.
package dialog

import "time"

// State identifies the step a chat is currently in within a multi-message
// conversation. The zero value is StateIdle, so an absent session behaves
// like an idle one.
type State int

const (
	StateIdle State = iota
	StateAddingTitle
	StateAddingDescription
	StatePickingDate
	StatePickingTime
	StateAwaitingDeleteTargets
	StateConfirmingDelete
	StateAssistantChat
)

// String returns a human-readable state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAddingTitle:
		return "adding_title"
	case StateAddingDescription:
		return "adding_description"
	case StatePickingDate:
		return "picking_date"
	case StatePickingTime:
		return "picking_time"
	case StateAwaitingDeleteTargets:
		return "awaiting_delete_targets"
	case StateConfirmingDelete:
		return "confirming_delete"
	case StateAssistantChat:
		return "assistant_chat"
	default:
		return "unknown"
	}
}

// MenuChoice is a main-menu action decoded from a button press at the
// transport boundary. The state machine never sees presentation labels.
type MenuChoice int

const (
	MenuAddTask MenuChoice = iota
	MenuListTasks
	MenuDeleteTask
	MenuClearAll
	MenuAssistant
)

// Event is an inbound conversation event, decoded once at the transport
// boundary and switched on by the state machine.
type Event interface {
	isEvent()
}

// StartEvent is the /start command. It always resets the conversation.
type StartEvent struct{}

// MenuEvent is a recognized main-menu button press.
type MenuEvent struct {
	Choice MenuChoice
}

// TextEvent is a free-form text message.
type TextEvent struct {
	Text string
}

// SkipEvent is the "skip" button press during the description step.
type SkipEvent struct{}

// DateEvent is a completed calendar round trip carrying the selected day.
type DateEvent struct {
	Date time.Time
}

// TimePresetEvent is a preset time button press carrying an HH:MM value.
type TimePresetEvent struct {
	Value string
}

// CustomTimeEvent is the "other time" button, requesting free-text entry.
type CustomTimeEvent struct{}

func (StartEvent) isEvent()      {}
func (MenuEvent) isEvent()       {}
func (TextEvent) isEvent()       {}
func (SkipEvent) isEvent()       {}
func (DateEvent) isEvent()       {}
func (TimePresetEvent) isEvent() {}
func (CustomTimeEvent) isEvent() {}

// KeyboardKind tells the transport which choice prompt to attach to an
// outgoing message. The dialog layer never builds markup itself.
type KeyboardKind int

const (
	KeyboardNone KeyboardKind = iota
	KeyboardMainMenu
	KeyboardSkip
	KeyboardCalendar
	KeyboardTimeOptions
	KeyboardConfirm
)

// Effect is an outbound message the transport should deliver to the chat.
// Month is set for KeyboardCalendar and names the month to render.
type Effect struct {
	Text     string
	Keyboard KeyboardKind
	Month    time.Time
}

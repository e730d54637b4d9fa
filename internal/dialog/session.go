package dialog

import (
	"sync"
	"time"
)

// Sessions is the keyed conversation store. Each chat owns exactly one
// Session, created on first contact and kept for the process lifetime.
// A chat's events are serialized on its own session lock; different chats
// never contend with each other beyond the brief lookup.
type Sessions struct {
	mu     sync.RWMutex
	byChat map[int64]*Session
}

// NewSessions creates an empty conversation store.
func NewSessions() *Sessions {
	return &Sessions{byChat: make(map[int64]*Session)}
}

// Get returns the session for a chat, creating it if needed.
func (s *Sessions) Get(chatID int64) *Session {
	s.mu.RLock()
	sess, ok := s.byChat[chatID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.byChat[chatID]; ok {
		return sess
	}
	sess = &Session{
		chatID: chatID,
		seen:   make(map[int64]struct{}),
	}
	s.byChat[chatID] = sess
	return sess
}

// Session holds one chat's dialogue state, draft fields accumulated across
// the multi-step add/delete flows, and the set of processed update ids.
// Callers must hold the session lock while reading or mutating dialogue
// state; Seen manages its own locking so the dedup check stays cheap.
type Session struct {
	mu sync.Mutex

	chatID int64
	state  State

	draftTitle       string
	draftDescription string
	hasDescription   bool
	draftDate        time.Time
	pendingDeleteIDs []int64

	seenMu sync.Mutex
	seen   map[int64]struct{}
}

// ChatID returns the owning chat.
func (s *Session) ChatID() int64 { return s.chatID }

// Lock serializes event handling for this chat.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-chat lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// State returns the current dialogue state.
func (s *Session) State() State { return s.state }

// Seen records an update id and reports whether it was already processed.
// The first call for an id returns false; every repeat returns true. Entries
// are kept for the process lifetime: update ids are unique and monotonic per
// transport session, so there is nothing to evict.
func (s *Session) Seen(updateID int64) bool {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()

	if _, dup := s.seen[updateID]; dup {
		return true
	}
	s.seen[updateID] = struct{}{}
	return false
}

// reset returns the session to idle and discards all draft fields. The dedup
// set survives: a reset conversation must still reject replayed updates.
func (s *Session) reset() {
	s.state = StateIdle
	s.draftTitle = ""
	s.draftDescription = ""
	s.hasDescription = false
	s.draftDate = time.Time{}
	s.pendingDeleteIDs = nil
}

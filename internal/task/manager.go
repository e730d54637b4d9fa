// Package task implements the task lifecycle manager: it orchestrates
// create/list/delete against the task store and keeps the reminder
// scheduler's job registry in step with the persisted deadlines.
package task

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/GRIBbI/telegram-assistant-bot/internal/database"
	"github.com/GRIBbI/telegram-assistant-bot/internal/reminder"
)

// ReminderScheduler is what the manager needs from the deadline scheduler.
// Implemented by reminder.Scheduler.
type ReminderScheduler interface {
	Schedule(job reminder.Job) error
	Cancel(taskID int64)
}

// Manager orchestrates the task lifecycle. All operations are synchronous
// and safe for concurrent use across chats; store writes are atomic per call.
type Manager struct {
	store  database.Store
	sched  ReminderScheduler
	logger *slog.Logger
}

// NewManager creates a task lifecycle manager.
func NewManager(store database.Store, sched ReminderScheduler, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		sched:  sched,
		logger: logger.With("component", "task_manager"),
	}
}

// Create persists a new task and, when a deadline is present, registers a
// reminder job for it. Deadlines are stored in UTC; the scheduler fires on
// the absolute instant regardless of zone.
func (m *Manager) Create(ctx context.Context, chatID int64, title string, description *string, deadline *time.Time) (database.Task, error) {
	t := database.Task{
		ChatID: chatID,
		Title:  title,
	}
	if description != nil {
		t.Description = sql.NullString{String: *description, Valid: true}
	}
	if deadline != nil {
		t.Deadline = sql.NullTime{Time: deadline.UTC(), Valid: true}
	}

	if err := m.store.InsertTask(ctx, &t); err != nil {
		return database.Task{}, err
	}

	if deadline != nil {
		if err := m.sched.Schedule(reminder.Job{
			TaskID: t.ID,
			ChatID: chatID,
			FireAt: *deadline,
			Title:  t.Title,
		}); err != nil {
			// The task itself is saved; a reminder that failed to register
			// will be restored on the next restart via rehydration.
			m.logger.ErrorContext(ctx, "Failed to register reminder for new task",
				"task_id", t.ID, "error", err)
		}
	}

	m.logger.InfoContext(ctx, "Created task",
		"task_id", t.ID, "chat_id", chatID, "has_deadline", deadline != nil)
	return t, nil
}

// List returns all tasks of a chat in insertion order. An empty result is
// valid, not an error.
func (m *Manager) List(ctx context.Context, chatID int64) ([]database.Task, error) {
	return m.store.ListTasks(ctx, chatID)
}

// Delete removes the given task ids, cancelling their reminder jobs.
// Unknown ids and ids owned by other chats are silently skipped. Returns
// how many tasks were actually deleted.
func (m *Manager) Delete(ctx context.Context, chatID int64, ids []int64) (int, error) {
	deleted := 0
	for _, id := range ids {
		t, err := m.store.GetTask(ctx, id)
		if err != nil {
			return deleted, err
		}
		if t == nil || t.ChatID != chatID {
			continue
		}

		removed, err := m.store.DeleteTask(ctx, id)
		if err != nil {
			return deleted, err
		}
		if !removed {
			continue
		}

		m.sched.Cancel(id)
		deleted++
	}

	m.logger.InfoContext(ctx, "Deleted tasks",
		"chat_id", chatID, "requested", len(ids), "deleted", deleted)
	return deleted, nil
}

// ClearAll removes every task of a chat and cancels all their jobs.
func (m *Manager) ClearAll(ctx context.Context, chatID int64) error {
	tasks, err := m.store.ListTasks(ctx, chatID)
	if err != nil {
		return err
	}

	if _, err := m.store.DeleteAllTasks(ctx, chatID); err != nil {
		return err
	}

	for _, t := range tasks {
		if t.HasDeadline() {
			m.sched.Cancel(t.ID)
		}
	}

	m.logger.InfoContext(ctx, "Cleared all tasks", "chat_id", chatID, "count", len(tasks))
	return nil
}

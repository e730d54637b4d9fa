package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GRIBbI/telegram-assistant-bot/internal/apperrors"
)

// Store defines the interface for task persistence.
// Methods accept context.Context for cancellation and timeouts. All failures
// are reported as storage errors (apperrors.CodeStorage).
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// InsertTask inserts a new task and assigns its ID.
	InsertTask(ctx context.Context, task *Task) error

	// ListTasks retrieves all tasks of a chat in insertion order.
	ListTasks(ctx context.Context, chatID int64) ([]Task, error)

	// GetTask retrieves a task by id. Returns nil, nil if not found.
	GetTask(ctx context.Context, id int64) (*Task, error)

	// DeleteTask removes a task by id. Returns false if no such task existed.
	DeleteTask(ctx context.Context, id int64) (bool, error)

	// DeleteAllTasks removes every task of a chat, returning how many were removed.
	DeleteAllTasks(ctx context.Context, chatID int64) (int64, error)

	// ListPendingReminders retrieves all tasks whose deadline is set and
	// strictly after now. Used to rebuild reminder jobs on startup.
	ListPendingReminders(ctx context.Context, now time.Time) ([]Task, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.NewStorageError("database ping failed", err)
	}
	return nil
}

// InsertTask inserts a new task record and assigns its ID.
func (s *sqlxStore) InsertTask(ctx context.Context, task *Task) error {
	if task == nil {
		return apperrors.NewStorageError("cannot insert nil task", nil)
	}
	if task.ChatID == 0 {
		return apperrors.NewStorageError("task must have a non-zero chat_id", nil)
	}
	if task.Title == "" {
		return apperrors.NewStorageError("task must have a non-empty title", nil)
	}

	task.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO tasks (created_at, chat_id, title, description, deadline)
        VALUES (:created_at, :chat_id, :title, :description, :deadline);
    `

	result, err := s.db.NamedExecContext(ctx, query, task)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error inserting task", "chat_id", task.ChatID, "error", err)
		return apperrors.NewStorageError(
			fmt.Sprintf("failed to insert task for chat %d", task.ChatID), err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		s.logger.ErrorContext(ctx, "Could not retrieve last insert ID after inserting task",
			"chat_id", task.ChatID, "error", err)
		return apperrors.NewStorageError("failed to read inserted task id", err)
	}
	task.ID = id

	s.logger.DebugContext(ctx, "Inserted task", "task_id", task.ID, "chat_id", task.ChatID)
	return nil
}

// ListTasks retrieves all tasks of a chat ordered by id, which matches
// insertion order for the AUTOINCREMENT key.
func (s *sqlxStore) ListTasks(ctx context.Context, chatID int64) ([]Task, error) {
	var tasks []Task

	query := `SELECT * FROM tasks WHERE chat_id = ? ORDER BY id ASC;`
	if err := s.db.SelectContext(ctx, &tasks, query, chatID); err != nil {
		s.logger.ErrorContext(ctx, "Error listing tasks", "chat_id", chatID, "error", err)
		return nil, apperrors.NewStorageError(
			fmt.Sprintf("failed to list tasks for chat %d", chatID), err)
	}

	return tasks, nil
}

// GetTask retrieves a single task by id. Returns nil, nil when absent.
func (s *sqlxStore) GetTask(ctx context.Context, id int64) (*Task, error) {
	var task Task

	query := `SELECT * FROM tasks WHERE id = ?;`
	err := s.db.GetContext(ctx, &task, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error fetching task", "task_id", id, "error", err)
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to fetch task %d", id), err)
	}

	return &task, nil
}

// DeleteTask removes a task by id. A missing id is not an error; the bool
// result reports whether a row was actually removed.
func (s *sqlxStore) DeleteTask(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?;`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting task", "task_id", id, "error", err)
		return false, apperrors.NewStorageError(fmt.Sprintf("failed to delete task %d", id), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewStorageError("failed to read affected rows", err)
	}

	return affected > 0, nil
}

// DeleteAllTasks removes every task of a chat in a single statement, so the
// bulk clear is atomic.
func (s *sqlxStore) DeleteAllTasks(ctx context.Context, chatID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE chat_id = ?;`, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error clearing tasks", "chat_id", chatID, "error", err)
		return 0, apperrors.NewStorageError(
			fmt.Sprintf("failed to clear tasks for chat %d", chatID), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewStorageError("failed to read affected rows", err)
	}

	s.logger.InfoContext(ctx, "Cleared tasks", "chat_id", chatID, "deleted", affected)
	return affected, nil
}

// ListPendingReminders retrieves all tasks across chats whose deadline is
// still in the future. In-memory reminder jobs are derived state; this query
// is the source of truth on restart.
func (s *sqlxStore) ListPendingReminders(ctx context.Context, now time.Time) ([]Task, error) {
	var tasks []Task

	query := `SELECT * FROM tasks WHERE deadline IS NOT NULL AND deadline > ? ORDER BY deadline ASC;`
	if err := s.db.SelectContext(ctx, &tasks, query, now.UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error listing pending reminders", "error", err)
		return nil, apperrors.NewStorageError("failed to list pending reminders", err)
	}

	return tasks, nil
}

// RunMaintenance performs database maintenance (VACUUM and ANALYZE).
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Running database maintenance (VACUUM, ANALYZE)")

	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		return apperrors.NewStorageError("VACUUM failed", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		return apperrors.NewStorageError("ANALYZE failed", err)
	}

	return nil
}

package database

import (
	"database/sql"
	"time"
)

// Task is a persisted to-do item owned by a single chat. Title is required;
// description and deadline are optional. Tasks are never edited after
// creation, only created and deleted.
type Task struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChatID      int64          `db:"chat_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Deadline    sql.NullTime   `db:"deadline"`
}

// HasDeadline reports whether a reminder should exist for the task.
func (t *Task) HasDeadline() bool {
	return t.Deadline.Valid
}

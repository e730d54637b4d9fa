package database_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GRIBbI/telegram-assistant-bot/internal/database"
)

// newTestStore opens a migrated SQLite database in a temp dir.
func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestStoreInsertAndGetTask(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	deadline := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	task := &database.Task{
		ChatID:      1,
		Title:       "Report",
		Description: sql.NullString{String: "quarterly numbers", Valid: true},
		Deadline:    sql.NullTime{Time: deadline, Valid: true},
	}

	require.NoError(t, store.InsertTask(ctx, task))
	require.NotZero(t, task.ID, "insert assigns the id")
	require.False(t, task.CreatedAt.IsZero())

	got, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Report", got.Title)
	require.True(t, got.Description.Valid)
	require.Equal(t, "quarterly numbers", got.Description.String)
	require.True(t, got.Deadline.Valid)
	require.True(t, got.Deadline.Time.Equal(deadline))
	require.True(t, got.HasDeadline())
}

func TestStoreGetTaskMissingReturnsNil(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	got, err := store.GetTask(context.Background(), 4242)
	require.NoError(t, err)
	require.Nil(t, got, "a missing task is nil, nil rather than an error")
}

func TestStoreInsertTaskValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.Error(t, store.InsertTask(ctx, nil))
	require.Error(t, store.InsertTask(ctx, &database.Task{Title: "no chat"}))
	require.Error(t, store.InsertTask(ctx, &database.Task{ChatID: 1}))
}

func TestStoreListTasksIsolatedPerChat(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for _, seed := range []database.Task{
		{ChatID: 1, Title: "first"},
		{ChatID: 2, Title: "other chat"},
		{ChatID: 1, Title: "second"},
	} {
		seed := seed
		require.NoError(t, store.InsertTask(ctx, &seed))
	}

	tasks, err := store.ListTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, "first", tasks[0].Title, "listing keeps insertion order")
	require.Equal(t, "second", tasks[1].Title)

	empty, err := store.ListTasks(ctx, 99)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestStoreDeleteTask(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	task := &database.Task{ChatID: 1, Title: "doomed"}
	require.NoError(t, store.InsertTask(ctx, task))

	removed, err := store.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = store.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.False(t, removed, "deleting an absent id reports false, not an error")
}

func TestStoreDeleteAllTasks(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for _, seed := range []database.Task{
		{ChatID: 1, Title: "a"},
		{ChatID: 1, Title: "b"},
		{ChatID: 2, Title: "keep"},
	} {
		seed := seed
		require.NoError(t, store.InsertTask(ctx, &seed))
	}

	n, err := store.DeleteAllTasks(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	kept, err := store.ListTasks(ctx, 2)
	require.NoError(t, err)
	require.Len(t, kept, 1)
}

func TestStoreListPendingReminders(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, seed := range []database.Task{
		{ChatID: 1, Title: "future", Deadline: sql.NullTime{Time: now.Add(time.Hour), Valid: true}},
		{ChatID: 2, Title: "far future", Deadline: sql.NullTime{Time: now.Add(48 * time.Hour), Valid: true}},
		{ChatID: 1, Title: "past", Deadline: sql.NullTime{Time: now.Add(-time.Hour), Valid: true}},
		{ChatID: 1, Title: "no deadline"},
	} {
		seed := seed
		require.NoError(t, store.InsertTask(ctx, &seed))
	}

	pending, err := store.ListPendingReminders(ctx, now)
	require.NoError(t, err)
	require.Len(t, pending, 2, "only future deadlines qualify")
	require.Equal(t, "future", pending[0].Title, "ordered by deadline ascending")
	require.Equal(t, "far future", pending[1].Title)
}

func TestStorePingAndMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.RunMaintenance(ctx))
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain path", "tasks.db", "tasks.db"},
		{"file scheme", "file:tasks.db", "tasks.db"},
		{"with query params", "file:tasks.db?cache=shared&mode=rwc", "tasks.db"},
		{"url encoded", "file:my%20tasks.db", "my tasks.db"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, database.ExtractDBNameFromPath(tc.in))
		})
	}
}

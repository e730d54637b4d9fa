package reminder_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GRIBbI/telegram-assistant-bot/internal/database"
)

// fakeStore serves a fixed pending-reminder list; the other Store methods
// are unused by rehydration.
type fakeStore struct {
	pending []database.Task
	err     error
}

func (f *fakeStore) Ping(context.Context) error                          { return nil }
func (f *fakeStore) InsertTask(context.Context, *database.Task) error    { return nil }
func (f *fakeStore) ListTasks(context.Context, int64) ([]database.Task, error) {
	return nil, nil
}
func (f *fakeStore) GetTask(context.Context, int64) (*database.Task, error) { return nil, nil }
func (f *fakeStore) DeleteTask(context.Context, int64) (bool, error)        { return false, nil }
func (f *fakeStore) DeleteAllTasks(context.Context, int64) (int64, error)   { return 0, nil }
func (f *fakeStore) RunMaintenance(context.Context) error                   { return nil }

func (f *fakeStore) ListPendingReminders(context.Context, time.Time) ([]database.Task, error) {
	return f.pending, f.err
}

func TestRehydrateRestoresPendingReminders(t *testing.T) {
	t.Parallel()

	future := time.Now().Add(time.Hour)
	store := &fakeStore{pending: []database.Task{
		{ID: 1, ChatID: 10, Title: "First", Deadline: sql.NullTime{Time: future, Valid: true}},
		{ID: 2, ChatID: 20, Title: "Second", Deadline: sql.NullTime{Time: future.Add(time.Minute), Valid: true}},
		{ID: 3, ChatID: 30, Title: "No deadline"},
	}}

	s := newTestScheduler(t, &captureNotifier{})

	require.NoError(t, s.Rehydrate(context.Background(), store))
	require.True(t, s.Pending(1))
	require.True(t, s.Pending(2))
	require.False(t, s.Pending(3), "a task without a deadline gets no job")
}

func TestRehydratePropagatesStoreFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: errors.New("database gone")}
	s := newTestScheduler(t, &captureNotifier{})

	require.Error(t, s.Rehydrate(context.Background(), store))
}

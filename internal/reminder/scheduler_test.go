package reminder_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GRIBbI/telegram-assistant-bot/internal/reminder"
)

type capturedNotification struct {
	chatID int64
	text   string
}

// captureNotifier records every delivery for assertions.
type captureNotifier struct {
	mu   sync.Mutex
	sent []capturedNotification
}

func (n *captureNotifier) Notify(_ context.Context, chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, capturedNotification{chatID: chatID, text: text})
	return nil
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *captureNotifier) last() capturedNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

func newTestScheduler(t *testing.T, notifier reminder.Notifier) *reminder.Scheduler {
	t.Helper()

	s, err := reminder.New(notifier, "Reminder: %s", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Stop()
	})
	return s
}

func TestSchedulerPastDeadlineFiresImmediately(t *testing.T) {
	t.Parallel()

	notifier := &captureNotifier{}
	s := newTestScheduler(t, notifier)

	err := s.Schedule(reminder.Job{
		TaskID: 1,
		ChatID: 77,
		FireAt: time.Now().Add(-time.Hour),
		Title:  "Overdue",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return notifier.count() == 1 },
		2*time.Second, 10*time.Millisecond)
	require.Equal(t, capturedNotification{chatID: 77, text: "Reminder: Overdue"}, notifier.last())
	require.False(t, s.Pending(1), "an immediately fired job must not stay registered")
}

func TestSchedulerFutureDeadlineFiresOnce(t *testing.T) {
	t.Parallel()

	notifier := &captureNotifier{}
	s := newTestScheduler(t, notifier)
	s.Start()

	err := s.Schedule(reminder.Job{
		TaskID: 2,
		ChatID: 88,
		FireAt: time.Now().Add(150 * time.Millisecond),
		Title:  "Soon",
	})
	require.NoError(t, err)
	require.True(t, s.Pending(2))

	require.Eventually(t, func() bool { return notifier.count() == 1 },
		5*time.Second, 10*time.Millisecond)
	require.Equal(t, "Reminder: Soon", notifier.last().text)

	// No second delivery sneaks in after the first one.
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, 1, notifier.count())
	require.False(t, s.Pending(2))
}

func TestSchedulerCancelPreventsDelivery(t *testing.T) {
	t.Parallel()

	notifier := &captureNotifier{}
	s := newTestScheduler(t, notifier)
	s.Start()

	err := s.Schedule(reminder.Job{
		TaskID: 3,
		ChatID: 99,
		FireAt: time.Now().Add(200 * time.Millisecond),
		Title:  "Never sent",
	})
	require.NoError(t, err)

	s.Cancel(3)
	require.False(t, s.Pending(3))

	time.Sleep(500 * time.Millisecond)
	require.Zero(t, notifier.count(), "a cancelled reminder must not fire")
}

func TestSchedulerCancelUnknownTaskIsNoop(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t, &captureNotifier{})
	s.Cancel(12345)
}

func TestSchedulerRescheduleReplacesJob(t *testing.T) {
	t.Parallel()

	notifier := &captureNotifier{}
	s := newTestScheduler(t, notifier)
	s.Start()

	err := s.Schedule(reminder.Job{
		TaskID: 4,
		ChatID: 11,
		FireAt: time.Now().Add(time.Hour),
		Title:  "Old deadline",
	})
	require.NoError(t, err)

	// Rescheduling the same task to the past replaces the pending job and
	// fires the replacement immediately.
	err = s.Schedule(reminder.Job{
		TaskID: 4,
		ChatID: 11,
		FireAt: time.Now().Add(-time.Minute),
		Title:  "New deadline",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return notifier.count() == 1 },
		2*time.Second, 10*time.Millisecond)
	require.Equal(t, "Reminder: New deadline", notifier.last().text)
	require.False(t, s.Pending(4))

	time.Sleep(300 * time.Millisecond)
	require.Equal(t, 1, notifier.count(), "the replaced job must never fire")
}

func TestSchedulerNearDeadlinesAllDeliver(t *testing.T) {
	t.Parallel()

	notifier := &captureNotifier{}
	s := newTestScheduler(t, notifier)
	s.Start()

	// Deadlines this close can arrive while Schedule is still registering
	// the job; every one of them must still be delivered exactly once.
	const n = 200
	for i := 1; i <= n; i++ {
		err := s.Schedule(reminder.Job{
			TaskID: int64(i),
			ChatID: int64(i),
			FireAt: time.Now().Add(500 * time.Microsecond),
			Title:  "Imminent",
		})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool { return notifier.count() == n },
		10*time.Second, 10*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	require.Equal(t, n, notifier.count(), "no duplicate deliveries after the fact")
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t, &captureNotifier{})
	s.Start()
	s.Start()
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

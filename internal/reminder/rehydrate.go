package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/GRIBbI/telegram-assistant-bot/internal/database"
)

// Rehydrate rebuilds reminder jobs from persisted task deadlines. Called once
// at startup, before traffic is served: deadlines live on tasks, so the
// in-memory job registry is derived state and a restart loses nothing.
func (s *Scheduler) Rehydrate(ctx context.Context, store database.Store) error {
	tasks, err := store.ListPendingReminders(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to load pending reminders: %w", err)
	}

	restored := 0
	for _, t := range tasks {
		if !t.Deadline.Valid {
			continue
		}
		if err := s.Schedule(Job{
			TaskID: t.ID,
			ChatID: t.ChatID,
			FireAt: t.Deadline.Time,
			Title:  t.Title,
		}); err != nil {
			s.logger.Error("Failed to restore reminder", "task_id", t.ID, "error", err)
			continue
		}
		restored++
	}

	s.logger.Info("Rehydrated reminders from task store", "restored", restored)
	return nil
}

// Package reminder implements the one-shot deadline scheduler. It keeps a
// durable-by-derivation registry of reminder jobs on top of gocron: the
// in-memory jobs are rebuilt from persisted task deadlines on startup, so a
// process restart never loses a reminder whose deadline is still ahead.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Job is a reminder registration: deliver one notification for a task to
// its chat at FireAt. At most one job is active per task at any time.
type Job struct {
	TaskID int64
	ChatID int64
	FireAt time.Time
	Title  string
}

// Notifier delivers a reminder message to a chat. Implemented by the
// Telegram gateway adapter.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// TaskFunc is the signature of recurring background tasks (maintenance).
type TaskFunc func(ctx context.Context) error

// Scheduler manages one-shot reminder jobs and recurring background tasks
// using the gocron library.
type Scheduler struct {
	scheduler gocron.Scheduler
	notifier  Notifier
	logger    *slog.Logger
	format    string // reminder text format, one %s verb for the title

	mu      sync.Mutex
	jobs    map[int64]uuid.UUID // task id -> gocron job id
	running bool
}

// New creates a scheduler instance. format is the reminder message format
// and must contain a single %s verb for the task title.
func New(notifier Notifier, format string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "reminder_scheduler")

	s, err := gocron.NewScheduler()
	if err != nil {
		log.Error("Failed to create gocron scheduler", "error", err)
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
		logger:    log,
		format:    format,
		jobs:      make(map[int64]uuid.UUID),
	}, nil
}

// Start begins dispatching. Jobs may be scheduled before or after Start.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.scheduler.Start()
	s.running = true
	s.logger.Info("Reminder scheduler started")
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Reminder scheduler stopped gracefully")
	}
	s.running = false
	return err
}

// Schedule registers a one-shot reminder. A job already registered for the
// same task is replaced. A fire time at or before now fires immediately.
func (s *Scheduler) Schedule(job Job) error {
	s.remove(job.TaskID)

	now := time.Now()
	if !job.FireAt.After(now) {
		s.logger.Info("Reminder fire time already passed, firing immediately",
			"task_id", job.TaskID, "chat_id", job.ChatID, "fire_at", job.FireAt)
		go s.deliver(context.Background(), job)
		return nil
	}

	// The job must be registered under the lock: gocron may run a job with a
	// near fire time as soon as it is created, and fire only delivers when it
	// finds the registry entry.
	s.mu.Lock()
	gjob, err := s.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(job.FireAt)),
		gocron.NewTask(func() {
			s.fire(job)
		}),
		gocron.WithName(fmt.Sprintf("reminder-%d", job.TaskID)),
	)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("Failed to schedule reminder",
			"task_id", job.TaskID, "fire_at", job.FireAt, "error", err)
		return fmt.Errorf("failed to schedule reminder for task %d: %w", job.TaskID, err)
	}
	s.jobs[job.TaskID] = gjob.ID()
	s.mu.Unlock()

	s.logger.Info("Scheduled reminder",
		"task_id", job.TaskID, "chat_id", job.ChatID, "fire_at", job.FireAt)
	return nil
}

// Cancel removes a pending reminder by task id. No-op when the task has no
// pending job or the job already fired.
func (s *Scheduler) Cancel(taskID int64) {
	s.remove(taskID)
}

// remove drops a task's registry entry and its gocron job, if any.
func (s *Scheduler) remove(taskID int64) {
	s.mu.Lock()
	jobID, ok := s.jobs[taskID]
	if ok {
		delete(s.jobs, taskID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	if err := s.scheduler.RemoveJob(jobID); err != nil {
		// Job may have just fired; that still counts as removed.
		s.logger.Debug("Reminder job already gone on cancel", "task_id", taskID, "error", err)
	} else {
		s.logger.Info("Cancelled reminder", "task_id", taskID)
	}
}

// fire runs inside gocron when a job's time arrives. Claiming the registry
// entry before delivering keeps firing at-most-once even if gocron and a
// concurrent Cancel race.
func (s *Scheduler) fire(job Job) {
	s.mu.Lock()
	_, ok := s.jobs[job.TaskID]
	if ok {
		delete(s.jobs, job.TaskID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	s.deliver(context.Background(), job)
}

func (s *Scheduler) deliver(ctx context.Context, job Job) {
	text := fmt.Sprintf(s.format, job.Title)
	if err := s.notifier.Notify(ctx, job.ChatID, text); err != nil {
		s.logger.Error("Failed to deliver reminder",
			"task_id", job.TaskID, "chat_id", job.ChatID, "error", err)
		return
	}
	s.logger.Info("Delivered reminder", "task_id", job.TaskID, "chat_id", job.ChatID)
}

// Pending reports whether a reminder is currently registered for the task.
func (s *Scheduler) Pending(taskID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[taskID]
	return ok
}

// AddCronTask registers a recurring background task with a standard 5-field
// cron schedule. Used for database maintenance.
func (s *Scheduler) AddCronTask(name, schedule string, fn TaskFunc) error {
	if schedule == "" {
		s.logger.Warn("Recurring task has empty schedule, skipping", "task_name", name)
		return nil
	}

	_, err := s.scheduler.NewJob(
		gocron.CronJob(schedule, false),
		gocron.NewTask(func(ctx context.Context) {
			s.logger.Info("Running recurring task", "task_name", name)
			startTime := time.Now()
			if taskErr := fn(ctx); taskErr != nil {
				s.logger.Error("Recurring task failed", "task_name", name, "error", taskErr)
			}
			s.logger.Info("Finished recurring task", "task_name", name, "duration", time.Since(startTime))
		}, context.Background()),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule recurring task %s: %w", name, err)
	}

	s.logger.Info("Scheduled recurring task", "task_name", name, "schedule", schedule)
	return nil
}

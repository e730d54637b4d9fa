// Package main contains the entrypoint for the task-reminder bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	"github.com/GRIBbI/telegram-assistant-bot/internal/assistant"
	"github.com/GRIBbI/telegram-assistant-bot/internal/bot"
	"github.com/GRIBbI/telegram-assistant-bot/internal/bot/handlers"
	"github.com/GRIBbI/telegram-assistant-bot/internal/config"
	"github.com/GRIBbI/telegram-assistant-bot/internal/database"
	"github.com/GRIBbI/telegram-assistant-bot/internal/dialog"
	"github.com/GRIBbI/telegram-assistant-bot/internal/logger"
	"github.com/GRIBbI/telegram-assistant-bot/internal/reminder"
	"github.com/GRIBbI/telegram-assistant-bot/internal/task"
	"github.com/GRIBbI/telegram-assistant-bot/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// scheduler, assistant, bot), handles graceful shutdown, and returns an exit
// code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	// Optional .env for local development; real deployments set BOT_* directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	assistantClient, err := assistant.New(ctx, cfg.Assistant, log)
	if err != nil {
		log.Error("Failed to initialize assistant", "error", err)
		return 1
	}

	// The notifier is bound to the transport below: the scheduler needs a
	// notifier before the bot exists, and the bot's handlers need the
	// scheduler's task manager.
	notifier := telegram.NewNotifier(log)
	sched, err := reminder.New(notifier, cfg.Messages.ReminderPrefix, log)
	if err != nil {
		log.Error("Failed to create reminder scheduler", "error", err)
		return 1
	}

	tasks := task.NewManager(store, sched, log)
	machine := dialog.NewMachine(log, tasks, assistantClient, cfg.Messages, cfg.Location())

	deps := handlers.Deps{
		Logger:   log,
		Config:   cfg,
		Sessions: dialog.NewSessions(),
		Machine:  machine,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(deps)),
	}
	tg, err := telegram.New(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}
	notifier.Bind(tg)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAll(deps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	// Reminder jobs are derived state; rebuild them from persisted deadlines
	// before serving any traffic.
	if err := sched.Rehydrate(ctx, store); err != nil {
		log.Error("Failed to rehydrate reminders", "error", err)
		return 1
	}

	if err := sched.AddCronTask("db_maintenance", cfg.Scheduler.MaintenanceSchedule, store.RunMaintenance); err != nil {
		log.Error("Failed to schedule database maintenance", "error", err)
		return 1
	}

	app := bot.NewBot(log, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}

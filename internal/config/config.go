// Package config provides configuration loading, validation, and management
// for the task-reminder bot. It handles reading from YAML files, BOT_*
// environment variables, default values, and validation of the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/GRIBbI/telegram-assistant-bot/internal/apperrors"
)

// Config defines the application configuration parameters for all components
// of the bot: logging, Telegram transport, task storage, the optional text
// assistant, the reminder scheduler, and every user-visible string.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Buttons   ButtonsConfig   `mapstructure:"buttons"`
}

// LogConfig controls log verbosity and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot access token. The token is required; the
// process refuses to start without it.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// DatabaseConfig points at the SQLite task store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// AssistantConfig configures the optional free-form Q&A backend. An empty
// backend disables the assistant; users then get a fixed unavailable notice.
type AssistantConfig struct {
	Backend     string        `mapstructure:"backend"     validate:"omitempty,oneof=openai gemini"`
	Token       string        `mapstructure:"token"       validate:"required_with=Backend"`
	BaseURL     string        `mapstructure:"base_url"    validate:"omitempty,url"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"min=1s,max=10m"`
	Instruction string        `mapstructure:"instruction"`
}

// SchedulerConfig controls reminder delivery and background maintenance.
type SchedulerConfig struct {
	Timezone            string `mapstructure:"timezone" validate:"required"`
	MaintenanceSchedule string `mapstructure:"maintenance_schedule"`
}

// MessagesConfig holds every message the bot sends. Keeping the strings in
// configuration keeps presentation decoupled from the dialogue control flow.
type MessagesConfig struct {
	Welcome           string `mapstructure:"welcome"`
	MenuPrompt        string `mapstructure:"menu_prompt"`
	TitlePrompt       string `mapstructure:"title_prompt"`
	DescriptionPrompt string `mapstructure:"description_prompt"`
	DatePrompt        string `mapstructure:"date_prompt"`
	TimePrompt        string `mapstructure:"time_prompt"`
	CustomTimePrompt  string `mapstructure:"custom_time_prompt"`
	InvalidTime       string `mapstructure:"invalid_time"`
	TaskSaved         string `mapstructure:"task_saved"`
	ListEmpty         string `mapstructure:"list_empty"`
	ListHeader        string `mapstructure:"list_header"`
	DeletePrompt      string `mapstructure:"delete_prompt"`
	InvalidIDs        string `mapstructure:"invalid_ids"`
	ConfirmDelete     string `mapstructure:"confirm_delete"`
	DeleteDone        string `mapstructure:"delete_done"`
	DeleteCancelled   string `mapstructure:"delete_cancelled"`
	ClearDone         string `mapstructure:"clear_done"`
	UseMenu           string `mapstructure:"use_menu"`
	GeneralError      string `mapstructure:"general_error"`
	AssistantPrompt   string `mapstructure:"assistant_prompt"`
	AssistantDown     string `mapstructure:"assistant_down"`
	ReminderPrefix    string `mapstructure:"reminder_prefix"`
}

// ButtonsConfig holds the labels of the reply-keyboard and inline buttons.
type ButtonsConfig struct {
	AddTask     string   `mapstructure:"add_task"`
	ListTasks   string   `mapstructure:"list_tasks"`
	DeleteTask  string   `mapstructure:"delete_task"`
	ClearAll    string   `mapstructure:"clear_all"`
	Assistant   string   `mapstructure:"assistant"`
	Skip        string   `mapstructure:"skip"`
	CustomTime  string   `mapstructure:"custom_time"`
	Yes         string   `mapstructure:"yes"`
	No          string   `mapstructure:"no"`
	TimePresets []string `mapstructure:"time_presets" validate:"min=1,dive,len=5"`
}

// Load reads configuration from the given YAML file path (the file is
// optional; defaults are used when it is absent), applies BOT_* environment
// variable overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, apperrors.NewConfigError("failed to read config file", err)
		}
		// Missing config file is fine, defaults plus env cover everything.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to parse config", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, apperrors.NewConfigError("configuration validation failed", err)
	}

	if _, err := time.LoadLocation(cfg.Scheduler.Timezone); err != nil {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("unknown timezone %q", cfg.Scheduler.Timezone), err)
	}

	return cfg, nil
}

// Location resolves the configured timezone. Load guarantees it parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	// Registered empty so BOT_TELEGRAM_TOKEN / BOT_ASSISTANT_TOKEN are picked
	// up by Unmarshal even without a config file.
	v.SetDefault("telegram.token", "")
	v.SetDefault("assistant.token", "")

	v.SetDefault("database.path", "tasks.db")

	v.SetDefault("assistant.backend", "")
	v.SetDefault("assistant.base_url", "https://api.openai.com/v1")
	v.SetDefault("assistant.model", "gpt-4o-mini")
	v.SetDefault("assistant.temperature", 1.0)
	v.SetDefault("assistant.timeout", 2*time.Minute)
	v.SetDefault("assistant.instruction",
		"You are a helpful assistant focused on providing clear and accurate responses.")

	v.SetDefault("scheduler.timezone", "Local")
	v.SetDefault("scheduler.maintenance_schedule", "0 4 * * *")

	v.SetDefault("messages.welcome", "Hi! I'm your task manager bot. Pick an action:")
	v.SetDefault("messages.menu_prompt", "Pick an action:")
	v.SetDefault("messages.title_prompt", "Enter the task title:")
	v.SetDefault("messages.description_prompt", "Enter a description (or skip):")
	v.SetDefault("messages.date_prompt", "Pick a deadline date:")
	v.SetDefault("messages.time_prompt", "Pick a time:")
	v.SetDefault("messages.custom_time_prompt", "Enter the time as HH:MM (for example 14:30):")
	v.SetDefault("messages.invalid_time", "That doesn't look like a time. Use HH:MM (for example 14:30).")
	v.SetDefault("messages.task_saved", "Task %q saved.")
	v.SetDefault("messages.list_empty", "Your task list is empty.")
	v.SetDefault("messages.list_header", "Your tasks:")
	v.SetDefault("messages.delete_prompt", "Send the ids to delete, separated by commas:")
	v.SetDefault("messages.invalid_ids", "Ids must be numbers separated by commas. Try again:")
	v.SetDefault("messages.confirm_delete", "Delete %d task(s)?")
	v.SetDefault("messages.delete_done", "Deleted %d task(s).")
	v.SetDefault("messages.delete_cancelled", "Deletion cancelled.")
	v.SetDefault("messages.clear_done", "All tasks cleared.")
	v.SetDefault("messages.use_menu", "Please finish the current step or send /start to reset.")
	v.SetDefault("messages.general_error", "Something went wrong. Please try again.")
	v.SetDefault("messages.assistant_prompt", "Ask me anything:")
	v.SetDefault("messages.assistant_down", "The assistant is unavailable right now. Please try later.")
	v.SetDefault("messages.reminder_prefix", "Reminder: %s")

	v.SetDefault("buttons.add_task", "Add task")
	v.SetDefault("buttons.list_tasks", "My tasks")
	v.SetDefault("buttons.delete_task", "Delete task")
	v.SetDefault("buttons.clear_all", "Clear all")
	v.SetDefault("buttons.assistant", "Assistant")
	v.SetDefault("buttons.skip", "Skip")
	v.SetDefault("buttons.custom_time", "Other time")
	v.SetDefault("buttons.yes", "Yes")
	v.SetDefault("buttons.no", "No")
	v.SetDefault("buttons.time_presets", []string{"09:00", "12:00", "15:00", "18:00"})
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GRIBbI/telegram-assistant-bot/internal/apperrors"
	"github.com/GRIBbI/telegram-assistant-bot/internal/config"
)

// writeConfig drops a YAML config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsWithTokenFromEnv(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "test-token")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err, "a missing config file is fine when env covers the token")

	require.Equal(t, "test-token", cfg.Telegram.Token)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "tasks.db", cfg.Database.Path)
	require.Empty(t, cfg.Assistant.Backend, "assistant is disabled by default")
	require.Equal(t, "Local", cfg.Scheduler.Timezone)
	require.Equal(t, []string{"09:00", "12:00", "15:00", "18:00"}, cfg.Buttons.TimePresets)
	require.NotNil(t, cfg.Location())
}

func TestLoadMissingTokenFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.CodeConfig))
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  json: true
telegram:
  token: file-token
database:
  path: /tmp/bot.db
scheduler:
  timezone: Europe/Berlin
messages:
  welcome: "Hello there"
buttons:
  time_presets: ["08:00", "20:00"]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Log.JSON)
	require.Equal(t, "file-token", cfg.Telegram.Token)
	require.Equal(t, "/tmp/bot.db", cfg.Database.Path)
	require.Equal(t, "Europe/Berlin", cfg.Scheduler.Timezone)
	require.Equal(t, "Hello there", cfg.Messages.Welcome)
	require.Equal(t, []string{"08:00", "20:00"}, cfg.Buttons.TimePresets)

	loc := cfg.Location()
	require.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "env-token")
	t.Setenv("BOT_LOG_LEVEL", "warn")

	path := writeConfig(t, `
telegram:
  token: file-token
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "env-token", cfg.Telegram.Token)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "bad log level",
			yaml: "telegram:\n  token: x\nlog:\n  level: loud\n",
		},
		{
			name: "unknown assistant backend",
			yaml: "telegram:\n  token: x\nassistant:\n  backend: skynet\n  token: y\n",
		},
		{
			name: "assistant backend without token",
			yaml: "telegram:\n  token: x\nassistant:\n  backend: openai\n  token: \"\"\n",
		},
		{
			name: "unknown timezone",
			yaml: "telegram:\n  token: x\nscheduler:\n  timezone: Mars/Olympus\n",
		},
		{
			name: "malformed time preset",
			yaml: "telegram:\n  token: x\nbuttons:\n  time_presets: [\"9am\"]\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tc.yaml))
			require.Error(t, err)
			require.True(t, apperrors.Is(err, apperrors.CodeConfig))
		})
	}
}

func TestLoadAssistantSettings(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: x
assistant:
  backend: gemini
  token: secret
  model: gemini-2.0-flash
  temperature: 0.7
  timeout: 30s
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "gemini", cfg.Assistant.Backend)
	require.Equal(t, "secret", cfg.Assistant.Token)
	require.Equal(t, "gemini-2.0-flash", cfg.Assistant.Model)
	require.InDelta(t, 0.7, cfg.Assistant.Temperature, 0.0001)
	require.Equal(t, 30*time.Second, cfg.Assistant.Timeout)
}

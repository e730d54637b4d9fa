// Package assistant provides the optional free-form Q&A backend: a stateless
// pass-through to an AI chat completion API. It acts as a factory over the
// supported backends; a bot without a configured backend simply runs without
// an assistant.
package assistant

import (
	"context"
	"log/slog"

	"github.com/GRIBbI/telegram-assistant-bot/internal/apperrors"
	"github.com/GRIBbI/telegram-assistant-bot/internal/config"
)

// Client answers one free-form question. Implementations are stateless: no
// conversation history is kept between calls.
type Client interface {
	Respond(ctx context.Context, text string) (string, error)
}

// New creates an assistant Client based on the configured backend, or
// nil when the assistant is disabled (empty backend).
func New(ctx context.Context, cfg config.AssistantConfig, logger *slog.Logger) (Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case "":
		logger.Info("Assistant disabled, no backend configured")
		return nil, nil
	case "openai":
		logger.Info("Initializing assistant", "backend", "openai", "model", cfg.Model)
		return newOpenAIClient(cfg, logger), nil
	case "gemini":
		logger.Info("Initializing assistant", "backend", "gemini", "model", cfg.Model)
		return newGeminiClient(ctx, cfg, logger)
	default:
		return nil, apperrors.NewConfigError("unknown assistant backend: "+cfg.Backend, nil)
	}
}

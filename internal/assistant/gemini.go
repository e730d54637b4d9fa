package assistant

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/GRIBbI/telegram-assistant-bot/internal/apperrors"
	"github.com/GRIBbI/telegram-assistant-bot/internal/config"
)

// geminiClient implements Client using Google's Gemini API via the genai SDK.
type geminiClient struct {
	client        *genai.Client
	logger        *slog.Logger
	model         string
	contentConfig *genai.GenerateContentConfig
	timeout       timeoutConfig
}

func newGeminiClient(ctx context.Context, cfg config.AssistantConfig, logger *slog.Logger) (Client, error) {
	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Token,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.NewConfigError("failed to create gemini client", err)
	}

	temperature := cfg.Temperature
	contentConfig := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if cfg.Instruction != "" {
		contentConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: cfg.Instruction}},
		}
	}

	return &geminiClient{
		client:        gi,
		logger:        logger.With("component", "assistant_gemini"),
		model:         cfg.Model,
		contentConfig: contentConfig,
		timeout:       timeoutConfig{cfg.Timeout},
	}, nil
}

// Respond sends a single-turn generation request.
func (c *geminiClient) Respond(ctx context.Context, text string) (string, error) {
	ctx, cancel := c.timeout.apply(ctx)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, c.contentConfig)
	if err != nil {
		c.logger.ErrorContext(ctx, "Content generation request failed", "error", err)
		return "", apperrors.NewAssistantError("gemini request failed", err)
	}

	answer := sanitizeReply(resp.Text())
	if answer == "" {
		return "", apperrors.NewAssistantError("gemini returned an empty response", nil)
	}

	return answer, nil
}

// timeoutConfig bounds a single assistant request.
type timeoutConfig struct {
	d time.Duration
}

func (t timeoutConfig) apply(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.d)
}

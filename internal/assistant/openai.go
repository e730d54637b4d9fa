package assistant

import (
	"context"
	"log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/GRIBbI/telegram-assistant-bot/internal/apperrors"
	"github.com/GRIBbI/telegram-assistant-bot/internal/config"
)

// openAIClient implements Client using the OpenAI chat completions API.
type openAIClient struct {
	client      openai.Client
	logger      *slog.Logger
	model       string
	temperature float32
	instruction string
	timeout     timeoutConfig
}

func newOpenAIClient(cfg config.AssistantConfig, logger *slog.Logger) Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.Token)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &openAIClient{
		client:      openai.NewClient(opts...),
		logger:      logger.With("component", "assistant_openai"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		instruction: cfg.Instruction,
		timeout:     timeoutConfig{cfg.Timeout},
	}
}

// Respond sends a single-turn chat completion request.
func (c *openAIClient) Respond(ctx context.Context, text string) (string, error) {
	ctx, cancel := c.timeout.apply(ctx)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(text),
	}
	if c.instruction != "" {
		messages = append(
			[]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(c.instruction)},
			messages...,
		)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(float64(c.temperature)),
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Chat completion request failed", "error", err)
		return "", apperrors.NewAssistantError("openai request failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewAssistantError("openai returned an empty response", nil)
	}

	reply := sanitizeReply(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", apperrors.NewAssistantError("openai returned an empty response", nil)
	}

	return reply, nil
}

package crew

import (
	"blogbrain/pkg/serrors"
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// newChatModel creates an OpenAI-compatible chat model bound to the shared
// endpoint with the given sampling temperature.
func newChatModel(ctx context.Context, cfg Config, temperature float64) (model.ToolCallingChatModel, error) {
	temp := float32(temperature)

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: &temp,
	})
}

// classifyModelError maps raw model transport failures onto semantic kinds.
// The eino openai component surfaces provider errors as plain strings, so
// classification falls back to status-code markers in the message.
func classifyModelError(err error) serrors.Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return serrors.ErrTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota"):
		return serrors.ErrRateLimited
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "api key"):
		return serrors.ErrAPIKey
	default:
		return serrors.ErrGeneration
	}
}

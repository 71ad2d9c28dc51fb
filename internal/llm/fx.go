package llm

import (
	"context"
	"fmt"

	"github.com/stormline/roofcrm/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("llm",
	fx.Provide(NewChatClient),
)

// NewChatClient returns nil when the AI backend is disabled or not configured;
// consumers then run template-only.
func NewChatClient(cfg config.Config, log *zap.Logger) (ChatClient, error) {
	log = log.Named("llm")
	if !cfg.AI.Enabled {
		log.Info("ai backend disabled")
		return nil, nil
	}
	if cfg.AI.APIKey == "" {
		log.Warn("ai backend enabled without AI_API_KEY, using templates only")
		return nil, nil
	}

	switch cfg.AI.Provider {
	case "", "gemini":
		client, err := NewGeminiClient(context.Background(), GeminiConfig{
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Timeout:     cfg.AI.Timeout,
			Temperature: cfg.AI.Temperature,
		})
		if err != nil {
			return nil, err
		}
		log.Info("ai backend ready", zap.String("provider", "gemini"), zap.String("model", client.model))
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.AI.Provider)
	}
}

package content

import (
	"context"

	"github.com/stormline/roofcrm/internal/llm"
	"github.com/stormline/roofcrm/internal/proposal/domain"
	"go.uber.org/zap"
)

// Resolver tries each strategy in order and falls back to the template. Strategy
// errors are logged and never returned.
type Resolver struct {
	strategies []ContentStrategy
	fallback   TemplateContentStrategy
	log        *zap.Logger
}

func NewResolver(log *zap.Logger, strategies ...ContentStrategy) *Resolver {
	return &Resolver{
		strategies: strategies,
		log:        log.Named("proposal.content"),
	}
}

// NewDefaultResolver prefers the chat backend when one is configured.
func NewDefaultResolver(client llm.ChatClient, log *zap.Logger) *Resolver {
	if client == nil {
		return NewResolver(log)
	}
	return NewResolver(log, NewAIContentStrategy(client))
}

// GenerateAIContent returns narrative content and which strategy produced it.
func (r *Resolver) GenerateAIContent(ctx context.Context, in Input) (domain.Content, domain.ContentSource) {
	for _, s := range r.strategies {
		out, err := s.Generate(ctx, in)
		if err == nil {
			return out, s.Source()
		}
		r.log.Warn("content strategy failed, falling back",
			zap.String("strategy", string(s.Source())),
			zap.String("reason", FailureReason(err)),
			zap.Error(err),
		)
	}

	out, _ := r.fallback.Generate(ctx, in)
	return out, r.fallback.Source()
}

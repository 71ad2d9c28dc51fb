package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)

type Provider interface {
	GenerateProposal(ctx context.Context, data ProposalData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateProposal(ctx context.Context, data ProposalData) (io.Reader, error) {
	return nil, nil
}

package proposal

import (
	"github.com/stormline/roofcrm/internal/proposal/content"
	"github.com/stormline/roofcrm/internal/proposal/repository"
	"github.com/stormline/roofcrm/internal/proposal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("proposal.service",
	content.Module,
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package reference

import (
	"github.com/stormline/roofcrm/internal/reference/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("reference.catalog",
	fx.Provide(NewPricingHolder),
	fx.Provide(func(h *PricingHolder) domain.CatalogSource { return h }),
)

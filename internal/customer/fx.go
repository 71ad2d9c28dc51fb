package customer

import (
	"github.com/stormline/roofcrm/internal/customer/domain"
	"github.com/stormline/roofcrm/internal/customer/repository"
	"github.com/stormline/roofcrm/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(func(svc domain.Service) domain.Aggregator { return svc }),
)

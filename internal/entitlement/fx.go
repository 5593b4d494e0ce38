package entitlement

import (
	"github.com/toolgram/premium/internal/entitlement/repository"
	"github.com/toolgram/premium/internal/entitlement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("entitlement.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

package referral

import (
	"github.com/toolgram/premium/internal/referral/repository"
	"github.com/toolgram/premium/internal/referral/service"
	"go.uber.org/fx"
)

var Module = fx.Module("referral.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewResolver),
)

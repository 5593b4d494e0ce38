package payment

import (
	"github.com/toolgram/premium/internal/config"
	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
	"github.com/toolgram/premium/internal/payment/razorpay"
	"github.com/toolgram/premium/internal/payment/repository"
	"github.com/toolgram/premium/internal/payment/webhook"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(razorpay.NewVerifier),
	fx.Provide(func(cfg config.Config, log *zap.Logger) paymentdomain.Gateway {
		return razorpay.NewClient(cfg, log)
	}),
	fx.Provide(webhook.NewService),
)

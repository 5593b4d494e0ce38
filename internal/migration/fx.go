package migration

import (
	"github.com/toolgram/premium/internal/config"
	entitlementdomain "github.com/toolgram/premium/internal/entitlement/domain"
	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
	referraldomain "github.com/toolgram/premium/internal/referral/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// mysql/sqlite are dev conveniences; let gorm derive the schema.
		return conn.AutoMigrate(
			&entitlementdomain.Subscription{},
			&referraldomain.ReferralRecord{},
			&referraldomain.ReferralUse{},
			&paymentdomain.OrderRecord{},
		)
	}),
)

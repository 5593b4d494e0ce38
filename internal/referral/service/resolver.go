package service

import (
	"context"
	"strings"
	"time"

	"github.com/toolgram/premium/internal/cache"
	referraldomain "github.com/toolgram/premium/internal/referral/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resolveTTL = 5 * time.Minute

// Resolver answers "does this referral code exist, and who owns it" for
// order pricing. Results are cached briefly; pricing tolerates a stale
// answer, the credit path does not and reads the ledger directly.
type Resolver struct {
	db     *gorm.DB
	log    *zap.Logger
	ledger referraldomain.Ledger
	cache  cache.Cache[string, referraldomain.ReferralRecord]
}

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Ledger referraldomain.Ledger
}

func NewResolver(p Params) *Resolver {
	return &Resolver{
		db:     p.DB,
		log:    p.Log.Named("referral.resolver"),
		ledger: p.Ledger,
		cache:  cache.NewTTLCache[string, referraldomain.ReferralRecord](),
	}
}

// Resolve returns nil, nil for an unknown code.
func (r *Resolver) Resolve(ctx context.Context, code string) (*referraldomain.ReferralRecord, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	if rec, ok := r.cache.Get(code); ok {
		return &rec, nil
	}

	rec, err := r.ledger.FindByCode(ctx, r.db, code)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	r.cache.Set(code, *rec, resolveTTL)
	return rec, nil
}

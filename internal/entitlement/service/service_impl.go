package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/toolgram/premium/internal/clock"
	"github.com/toolgram/premium/internal/config"
	entitlementdomain "github.com/toolgram/premium/internal/entitlement/domain"
	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
	paymentrepo "github.com/toolgram/premium/internal/payment/repository"
	referraldomain "github.com/toolgram/premium/internal/referral/domain"
	referralservice "github.com/toolgram/premium/internal/referral/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Policy   *config.PolicyHolder
	Store    entitlementdomain.Repository
	Ledger   referraldomain.Ledger
	Resolver *referralservice.Resolver
	Gateway  paymentdomain.Gateway
	Orders   paymentrepo.OrderStore
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	policy   *config.PolicyHolder
	store    entitlementdomain.Repository
	ledger   referraldomain.Ledger
	resolver *referralservice.Resolver
	gateway  paymentdomain.Gateway
	orders   paymentrepo.OrderStore
}

func NewService(p Params) entitlementdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("entitlement.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		policy:   p.Policy,
		store:    p.Store,
		ledger:   p.Ledger,
		resolver: p.Resolver,
		gateway:  p.Gateway,
		orders:   p.Orders,
	}
}

// CreateOrder implements domain.Service.
func (s *Service) CreateOrder(ctx context.Context, req entitlementdomain.CreateOrderRequest) (entitlementdomain.CreateOrderResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return entitlementdomain.CreateOrderResponse{}, entitlementdomain.ErrMissingUserID
	}
	referralCode := strings.TrimSpace(req.ReferralCode)

	policy := s.policy.Get()

	discount := 0.0
	if referralCode != "" {
		rec, err := s.resolver.Resolve(ctx, referralCode)
		if err != nil {
			return entitlementdomain.CreateOrderResponse{}, err
		}
		if rec != nil {
			discount = policy.ReferralDiscountPercent
		}
	}

	amount := toMinorUnits(policy.BasePrice * (1 - discount/100))

	notes := map[string]string{"userId": userID}
	if referralCode != "" {
		notes["referralCode"] = referralCode
	}

	order, err := s.gateway.CreateOrder(ctx, paymentdomain.OrderRequest{
		Amount:   amount,
		Currency: policy.Currency,
		Receipt:  fmt.Sprintf("rcpt_%s", s.genID.Generate()),
		Notes:    notes,
	})
	if err != nil {
		return entitlementdomain.CreateOrderResponse{}, err
	}

	record := &paymentdomain.OrderRecord{
		ID:             s.genID.Generate(),
		GatewayOrderID: order.ID,
		UserID:         userID,
		Amount:         order.Amount,
		Currency:       order.Currency,
		Receipt:        order.Receipt,
		Notes:          toJSONMap(notes),
		CreatedAt:      s.clock.Now(),
	}
	if err := s.orders.Insert(ctx, s.db, record); err != nil {
		return entitlementdomain.CreateOrderResponse{}, err
	}

	s.log.Info("order created",
		zap.String("user_id", userID),
		zap.String("gateway_order_id", order.ID),
		zap.Int64("amount", order.Amount),
		zap.Float64("discount_percent", discount),
	)

	return entitlementdomain.CreateOrderResponse{Order: order, Discount: discount}, nil
}

// ApplyPaymentEvent implements domain.Service. The unlock and the referral
// credit run in one transaction so a crash cannot credit without unlocking
// or the other way around.
func (s *Service) ApplyPaymentEvent(ctx context.Context, event paymentdomain.WebhookEvent) error {
	userID := strings.TrimSpace(event.UserID)
	if userID == "" {
		s.log.Info("payment event carries no user id, nothing to unlock",
			zap.String("event", event.RawType),
		)
		return nil
	}

	policy := s.policy.Get()
	now := s.clock.Now()
	expiry := now.Add(policy.EntitlementPeriod())
	plan := policy.PlanName

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub := &entitlementdomain.Subscription{
			UserID:     userID,
			Premium:    true,
			ExpiryDate: &expiry,
			Plan:       &plan,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.store.Upsert(ctx, tx, sub); err != nil {
			return err
		}

		if code := strings.TrimSpace(event.ReferralCode); code != "" {
			if err := s.creditReferral(ctx, tx, code, userID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("premium unlocked",
		zap.String("user_id", userID),
		zap.String("event", event.RawType),
		zap.Time("expiry_date", expiry),
	)
	return nil
}

func (s *Service) creditReferral(ctx context.Context, tx *gorm.DB, code, userID string, now time.Time) error {
	rec, err := s.ledger.FindByCode(ctx, tx, code)
	if err != nil {
		return err
	}
	if rec == nil {
		s.log.Info("referral code does not resolve, no credit",
			zap.String("code", code),
			zap.String("user_id", userID),
		)
		return nil
	}
	if rec.OwnerID == userID {
		s.log.Info("referral code owned by payer, no self-credit",
			zap.String("code", code),
		)
		return nil
	}

	credited, err := s.ledger.RecordUse(ctx, tx, code, userID, now)
	if err != nil {
		return err
	}
	if !credited {
		// Duplicate delivery: the user already counted once.
		s.log.Debug("referral already credited for this user",
			zap.String("code", code),
			zap.String("user_id", userID),
		)
		return nil
	}

	if err := s.ledger.IncrementReward(ctx, tx, code, now); err != nil {
		return err
	}
	s.log.Info("referral credited",
		zap.String("code", code),
		zap.String("owner_id", rec.OwnerID),
		zap.String("referred_user_id", userID),
	)
	return nil
}

// RecomputeValidity implements domain.Service.
func (s *Service) RecomputeValidity(ctx context.Context) (entitlementdomain.RecomputeResult, error) {
	subs, err := s.store.ListAll(ctx, s.db)
	if err != nil {
		return entitlementdomain.RecomputeResult{}, err
	}

	now := s.clock.Now()
	processed := 0
	for _, sub := range subs {
		valid := sub.ExpiryDate != nil && sub.ExpiryDate.After(now)
		if err := s.store.SetPremium(ctx, s.db, sub.UserID, valid, now); err != nil {
			s.log.Error("recompute failed for record, continuing",
				zap.String("user_id", sub.UserID),
				zap.Error(err),
			)
			continue
		}
		processed++
	}

	s.log.Info("validity sweep finished",
		zap.Int("total", len(subs)),
		zap.Int("processed", processed),
	)
	return entitlementdomain.RecomputeResult{Processed: processed}, nil
}

// Check implements domain.Service.
func (s *Service) Check(ctx context.Context, userID string) (entitlementdomain.Decision, error) {
	sub, err := s.store.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return entitlementdomain.Decision{}, err
	}
	if sub == nil {
		return entitlementdomain.Decision{Reason: entitlementdomain.DenyNoSubscription}, nil
	}
	if !sub.Active(s.clock.Now()) {
		return entitlementdomain.Decision{Reason: entitlementdomain.DenyExpiredOrInactive}, nil
	}
	return entitlementdomain.Decision{Allowed: true, Subscription: sub}, nil
}

func toMinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

func toJSONMap(in map[string]string) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for k, v := range in {
		out[k] = v
	}
	return out
}

package domain

import (
	"context"
	"errors"

	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
)

type CreateOrderRequest struct {
	UserID       string `json:"userId"`
	ReferralCode string `json:"referralCode,omitempty"`
}

type CreateOrderResponse struct {
	Order paymentdomain.Order `json:"order"`
	// Discount is the applied referral discount in percent (0 or the
	// configured rate).
	Discount float64 `json:"discount"`
}

type Service interface {
	// CreateOrder quotes the premium plan, applying the referral discount
	// when the code resolves, and creates the gateway order whose notes
	// carry userId/referralCode for later webhook correlation.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResponse, error)
	// ApplyPaymentEvent derives the entitlement transition from a verified
	// qualifying event. Idempotent under duplicate webhook delivery.
	ApplyPaymentEvent(ctx context.Context, event paymentdomain.WebhookEvent) error
	// RecomputeValidity sweeps every subscription, recomputing premium
	// strictly from expiry_date versus the current time. Per-record
	// failures are logged and skipped.
	RecomputeValidity(ctx context.Context) (RecomputeResult, error)
	// Check is the request-time gate. Always computed fresh from stored
	// state and the clock.
	Check(ctx context.Context, userID string) (Decision, error)
}

var (
	ErrMissingUserID       = errors.New("missing_user_id")
	ErrSubscriptionNeeded  = errors.New("subscription_required")
	ErrSubscriptionExpired = errors.New("subscription_expired")
)

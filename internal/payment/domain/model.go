// Package domain contains the payment-gateway facing types: webhook events,
// orders, and the client contract the entitlement engine depends on.
package domain

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// EventType classifies an inbound webhook for entitlement purposes.
type EventType string

const (
	// EventTypePaymentCaptured is a one-off captured payment.
	EventTypePaymentCaptured EventType = "payment.captured"
	// EventTypeSubscription covers every subscription.* gateway event.
	EventTypeSubscription EventType = "subscription"
	// EventTypeOther is anything this service does not act on. Such events
	// are acknowledged so the gateway stops retrying them.
	EventTypeOther EventType = "other"
)

// WebhookEvent is the transient, already-verified form of a gateway
// notification. It is never persisted.
type WebhookEvent struct {
	Type         EventType
	RawType      string
	UserID       string
	ReferralCode string
	RawBody      []byte
}

// Order mirrors the gateway order object returned on creation.
type Order struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

// OrderRequest is the payload sent to the gateway when creating an order.
// Amount is in minor currency units.
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

// Gateway is the slice of the payment-gateway API this service calls.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
}

// IngestService accepts a raw webhook delivery and applies it.
type IngestService interface {
	IngestWebhook(ctx context.Context, payload []byte, headers http.Header) error
}

// OrderRecord is the persisted trace of a created order, kept so webhook
// arrivals can be audited against what was quoted.
type OrderRecord struct {
	ID             snowflake.ID      `gorm:"primaryKey"`
	GatewayOrderID string            `gorm:"column:gateway_order_id;index"`
	UserID         string            `gorm:"column:user_id;not null;index"`
	Amount         int64             `gorm:"column:amount;not null"`
	Currency       string            `gorm:"column:currency;not null"`
	Receipt        string            `gorm:"column:receipt;not null"`
	Notes          datatypes.JSONMap `gorm:"column:notes"`
	CreatedAt      time.Time         `gorm:"not null"`
}

func (OrderRecord) TableName() string { return "payment_orders" }

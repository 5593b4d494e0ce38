package repository

import (
	"context"

	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
	"gorm.io/gorm"
)

// OrderStore persists the audit trail of created orders.
type OrderStore interface {
	Insert(ctx context.Context, db *gorm.DB, rec *paymentdomain.OrderRecord) error
}

type orderStore struct{}

func Provide() OrderStore {
	return &orderStore{}
}

func (s *orderStore) Insert(ctx context.Context, db *gorm.DB, rec *paymentdomain.OrderRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payment_orders (id, gateway_order_id, user_id, amount, currency, receipt, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.GatewayOrderID,
		rec.UserID,
		rec.Amount,
		rec.Currency,
		rec.Receipt,
		rec.Notes,
		rec.CreatedAt,
	).Error
}

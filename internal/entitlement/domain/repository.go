package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository is the durable store of per-user entitlement state. Methods
// take the connection explicitly so callers can run them inside a
// transaction.
type Repository interface {
	// FindByUserID returns nil, nil when no record exists.
	FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*Subscription, error)
	// Upsert merges the entitlement fields into the user's record, creating
	// it on first payment. Unrelated fields are preserved; in particular an
	// absent Plan never clears a stored one.
	Upsert(ctx context.Context, db *gorm.DB, sub *Subscription) error
	ListAll(ctx context.Context, db *gorm.DB) ([]Subscription, error)
	SetPremium(ctx context.Context, db *gorm.DB, userID string, premium bool, updatedAt time.Time) error
}

// Package domain contains the referral ledger model and contract.
package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrCodeExists is returned when a referral code is already registered.
var ErrCodeExists = errors.New("referral_code_exists")

// ReferralRecord tracks one referral code and its reward counter. The
// counter equals the number of ReferralUse rows for the code; the unique
// (code, user_id) pair on uses is what enforces at most one reward per
// referred user.
type ReferralRecord struct {
	Code        string    `gorm:"primaryKey;column:code"`
	OwnerID     string    `gorm:"column:owner_id;not null;index"`
	RewardCount int64     `gorm:"column:reward_count;not null;default:0"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ReferralRecord) TableName() string { return "referrals" }

// ReferralUse marks that a referred user has already been credited against
// a code. Duplicate webhook deliveries hit the primary key and credit
// nothing.
type ReferralUse struct {
	Code      string    `gorm:"primaryKey;column:code"`
	UserID    string    `gorm:"primaryKey;column:user_id"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ReferralUse) TableName() string { return "referral_uses" }

// Ledger is the durable referral store. Methods take the connection
// explicitly so credit and unlock can share one transaction.
type Ledger interface {
	// FindByCode returns nil, nil when the code does not resolve.
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*ReferralRecord, error)
	Create(ctx context.Context, db *gorm.DB, rec *ReferralRecord) error
	// RecordUse marks userID as credited against code. Returns false when
	// the user was already credited, which is not an error.
	RecordUse(ctx context.Context, db *gorm.DB, code, userID string, now time.Time) (bool, error)
	IncrementReward(ctx context.Context, db *gorm.DB, code string, now time.Time) error
}

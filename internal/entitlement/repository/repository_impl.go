package repository

import (
	"context"
	"errors"
	"time"

	entitlementdomain "github.com/toolgram/premium/internal/entitlement/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() entitlementdomain.Repository {
	return &repo{}
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*entitlementdomain.Subscription, error) {
	var sub entitlementdomain.Subscription
	err := db.WithContext(ctx).Where("user_id = ?", userID).Take(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert merges into an existing record rather than overwriting it: only
// the entitlement columns are assigned on conflict, so created_at and any
// unrelated stored fields survive re-unlocks. The conflict clause is built
// by gorm per dialect.
func (r *repo) Upsert(ctx context.Context, db *gorm.DB, sub *entitlementdomain.Subscription) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"premium", "expiry_date", "plan", "updated_at"}),
		}).
		Create(sub).Error
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]entitlementdomain.Subscription, error) {
	var subs []entitlementdomain.Subscription
	if err := db.WithContext(ctx).Order("user_id").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) SetPremium(ctx context.Context, db *gorm.DB, userID string, premium bool, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscriptions SET premium = ?, updated_at = ? WHERE user_id = ?`,
		premium,
		updatedAt,
		userID,
	).Error
}

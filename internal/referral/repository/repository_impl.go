package repository

import (
	"context"
	"errors"
	"time"

	referraldomain "github.com/toolgram/premium/internal/referral/domain"
	pkgdb "github.com/toolgram/premium/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledger struct{}

func Provide() referraldomain.Ledger {
	return &ledger{}
}

func (l *ledger) FindByCode(ctx context.Context, db *gorm.DB, code string) (*referraldomain.ReferralRecord, error) {
	var rec referraldomain.ReferralRecord
	err := db.WithContext(ctx).Where("code = ?", code).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (l *ledger) Create(ctx context.Context, db *gorm.DB, rec *referraldomain.ReferralRecord) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO referrals (code, owner_id, reward_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Code,
		rec.OwnerID,
		rec.RewardCount,
		rec.CreatedAt,
		rec.UpdatedAt,
	).Error
	if pkgdb.IsDuplicateKeyErr(err) {
		return referraldomain.ErrCodeExists
	}
	return err
}

// RecordUse relies on the (code, user_id) primary key: a duplicate insert
// affects zero rows and reports false without error. The conflict is
// absorbed inside the statement, never raised, so the surrounding unlock
// transaction stays committable. This holds under concurrent duplicate
// delivery because the constraint is enforced by the database, not by a
// read-then-write.
func (l *ledger) RecordUse(ctx context.Context, db *gorm.DB, code, userID string, now time.Time) (bool, error) {
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&referraldomain.ReferralUse{Code: code, UserID: userID, CreatedAt: now})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (l *ledger) IncrementReward(ctx context.Context, db *gorm.DB, code string, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE referrals SET reward_count = reward_count + 1, updated_at = ? WHERE code = ?`,
		now,
		code,
	).Error
}

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	referraldomain "github.com/toolgram/premium/internal/referral/domain"
	referralrepo "github.com/toolgram/premium/internal/referral/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_ledger_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE referrals (
			code         TEXT PRIMARY KEY,
			owner_id     TEXT NOT NULL,
			reward_count INTEGER NOT NULL DEFAULT 0,
			created_at   DATETIME NOT NULL,
			updated_at   DATETIME NOT NULL
		)`,
		`CREATE TABLE referral_uses (
			code       TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (code, user_id)
		)`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedCode(t *testing.T, db *gorm.DB, ledger referraldomain.Ledger, code, ownerID string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, ledger.Create(context.Background(), db, &referraldomain.ReferralRecord{
		Code:      code,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestRecordUseFirstThenDuplicate(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	ledger := referralrepo.Provide()
	seedCode(t, db, ledger, "FRIEND10", "owner-1")
	now := time.Now().UTC()

	credited, err := ledger.RecordUse(ctx, db, "FRIEND10", "u-1", now)
	require.NoError(t, err)
	require.True(t, credited)

	credited, err = ledger.RecordUse(ctx, db, "FRIEND10", "u-1", now)
	require.NoError(t, err)
	require.False(t, credited)
}

func TestRecordUseDuplicateKeepsTransactionCommittable(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	ledger := referralrepo.Provide()
	seedCode(t, db, ledger, "FRIEND10", "owner-1")
	now := time.Now().UTC()

	_, err := ledger.RecordUse(ctx, db, "FRIEND10", "u-1", now)
	require.NoError(t, err)

	// The duplicate is absorbed by the statement, so writes before and
	// after it in the same transaction must survive the commit.
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ledger.IncrementReward(ctx, tx, "FRIEND10", now); err != nil {
			return err
		}
		credited, err := ledger.RecordUse(ctx, tx, "FRIEND10", "u-1", now)
		if err != nil {
			return err
		}
		require.False(t, credited)
		return ledger.IncrementReward(ctx, tx, "FRIEND10", now)
	})
	require.NoError(t, err)

	rec, err := ledger.FindByCode(ctx, db, "FRIEND10")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, int64(2), rec.RewardCount)
}

func TestCreateDuplicateCode(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	ledger := referralrepo.Provide()
	seedCode(t, db, ledger, "FRIEND10", "owner-1")

	now := time.Now().UTC()
	err := ledger.Create(ctx, db, &referraldomain.ReferralRecord{
		Code:      "FRIEND10",
		OwnerID:   "owner-2",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.ErrorIs(t, err, referraldomain.ErrCodeExists)
}

// Package domain contains the premium entitlement model and contracts.
package domain

import "time"

// Subscription is the per-user entitlement record. Premium alone is never
// trusted: it is only valid together with ExpiryDate, and readers must
// treat a record whose expiry has passed as non-premium regardless of the
// stored flag.
type Subscription struct {
	UserID     string     `gorm:"primaryKey;column:user_id"`
	Premium    bool       `gorm:"column:premium;not null;default:false"`
	ExpiryDate *time.Time `gorm:"column:expiry_date"`
	Plan       *string    `gorm:"column:plan"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

func (Subscription) TableName() string { return "subscriptions" }

// Active reports whether the record entitles the user at the given instant.
func (s Subscription) Active(at time.Time) bool {
	return s.Premium && s.ExpiryDate != nil && s.ExpiryDate.After(at)
}

// DenyReason explains why the gate refused access.
type DenyReason string

const (
	DenyNoSubscription    DenyReason = "no_subscription"
	DenyExpiredOrInactive DenyReason = "expired_or_inactive"
)

// Decision is the outcome of an entitlement check. Subscription is set
// only when access is allowed.
type Decision struct {
	Allowed      bool
	Reason       DenyReason
	Subscription *Subscription
}

// RecomputeResult reports how many records a maintenance sweep repaired.
type RecomputeResult struct {
	Processed int `json:"processed"`
}

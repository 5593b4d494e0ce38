package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PolicyConfig holds the business rules that are tuned without a redeploy:
// how long a payment entitles a user, what the base plan costs, and how
// much a referral discounts the order.
type PolicyConfig struct {
	EntitlementPeriodDays   int     `mapstructure:"entitlementPeriodDays"`
	BasePrice               float64 `mapstructure:"basePrice"`
	ReferralDiscountPercent float64 `mapstructure:"referralDiscountPercent"`
	Currency                string  `mapstructure:"currency"`
	PlanName                string  `mapstructure:"planName"`
}

func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		EntitlementPeriodDays:   30,
		BasePrice:               10,
		ReferralDiscountPercent: 10,
		Currency:                "INR",
		PlanName:                "premium",
	}
}

// EntitlementPeriod returns the configured period as a duration.
func (p PolicyConfig) EntitlementPeriod() time.Duration {
	return time.Duration(p.EntitlementPeriodDays) * 24 * time.Hour
}

// PolicyHolder serves the current policy and hot-reloads it when the
// backing file changes. Invalid updates are ignored, keeping the last
// known good policy in effect.
type PolicyHolder struct {
	current atomic.Value // holds PolicyConfig
}

func NewPolicyHolder() (*PolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("policy")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/premium/config")
	v.AddConfigPath("/etc/premium")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PREMIUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPolicyConfig()
	v.SetDefault("policy.entitlementPeriodDays", defaults.EntitlementPeriodDays)
	v.SetDefault("policy.basePrice", defaults.BasePrice)
	v.SetDefault("policy.referralDiscountPercent", defaults.ReferralDiscountPercent)
	v.SetDefault("policy.currency", defaults.Currency)
	v.SetDefault("policy.planName", defaults.PlanName)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg PolicyConfig
	if err := v.UnmarshalKey("policy", &cfg); err != nil {
		return nil, err
	}
	if err := validatePolicyConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PolicyHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PolicyConfig
		if err := v.UnmarshalKey("policy", &updated); err != nil {
			log.Printf("[policy-config] reload failed: %v", err)
			return
		}
		if err := validatePolicyConfig(updated); err != nil {
			log.Printf("[policy-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[policy-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPolicyHolder returns a holder pinned to the given policy.
func NewStaticPolicyHolder(cfg PolicyConfig) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PolicyHolder) Get() PolicyConfig {
	return h.current.Load().(PolicyConfig)
}

func validatePolicyConfig(cfg PolicyConfig) error {
	if cfg.EntitlementPeriodDays <= 0 {
		return errors.New("policy.entitlementPeriodDays must be positive")
	}
	if cfg.BasePrice <= 0 {
		return errors.New("policy.basePrice must be positive")
	}
	if cfg.ReferralDiscountPercent < 0 || cfg.ReferralDiscountPercent >= 100 {
		return errors.New("policy.referralDiscountPercent must be in [0, 100)")
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		return errors.New("policy.currency cannot be empty")
	}
	return nil
}

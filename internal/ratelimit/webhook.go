package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/toolgram/premium/internal/config"
)

const (
	keyWebhookEndpoint = "premium:webhook:razorpay"
	keyRecomputeLock   = "premium:recompute:lock"

	recomputeLockTTL = 10 * time.Minute
)

// WebhookLimiter throttles the public webhook endpoint and guards the
// recompute sweep with a distributed lock. Both are no-ops when rate
// limiting is not configured.
type WebhookLimiter struct {
	enabled bool

	bucket *TokenBucket
	sweep  *SweepLock

	rate  float64
	burst int
}

func NewWebhookLimiter(cfg config.Config) (*WebhookLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.WebhookRate <= 0 || limitCfg.WebhookBurst <= 0 {
		return nil, errors.New("webhook rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &WebhookLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		sweep:   NewSweepLock(client),
		rate:    limitCfg.WebhookRate,
		burst:   limitCfg.WebhookBurst,
	}, nil
}

func (l *WebhookLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *WebhookLimiter) AllowWebhook(ctx context.Context) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, keyWebhookEndpoint, l.rate, l.burst)
}

func (l *WebhookLimiter) TryLockRecompute(ctx context.Context) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.sweep.Acquire(ctx)
}

func (l *WebhookLimiter) ReleaseRecompute(ctx context.Context, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.sweep.Release(ctx, token)
}

package ratelimit

import (
	"context"
	"errors"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// Released only by the holder: the token written on acquire must still be
// the stored value, otherwise the lock expired and someone else owns it.
const sweepReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// SweepLock keeps two validity sweeps from running at once. Best effort:
// the TTL bounds how long a crashed holder can block the next sweep, and
// callers are expected to proceed when redis itself is unreachable.
type SweepLock struct {
	client *redis.Client
	script *redis.Script
}

func NewSweepLock(client *redis.Client) *SweepLock {
	if client == nil {
		return nil
	}
	return &SweepLock{
		client: client,
		script: redis.NewScript(sweepReleaseScript),
	}
}

// Acquire returns the holder token when the lock was taken, or false when
// another sweep holds it.
func (l *SweepLock) Acquire(ctx context.Context) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", false, errors.New("sweep lock client not configured")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, keyRecomputeLock, token, recomputeLockTTL).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (l *SweepLock) Release(ctx context.Context, token string) error {
	if l == nil || l.client == nil || token == "" {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{keyRecomputeLock}, token).Err()
}

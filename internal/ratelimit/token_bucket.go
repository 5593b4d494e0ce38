package ratelimit

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local nowData = redis.call("TIME")
local now = (nowData[1] * 1000) + math.floor(nowData[2] / 1000)

local data = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])

if tokens == nil then
  tokens = burst
  ts = now
else
  local delta = now - ts
  if delta < 0 then
    delta = 0
  end
  local refill = (delta / 1000) * rate
  tokens = math.min(burst, tokens + refill)
  ts = now
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HMSET", KEYS[1], "tokens", tokens, "ts", ts)
redis.call("PEXPIRE", KEYS[1], ttl)

return {allowed, tokens, ts}
`

type TokenBucket struct {
	client *redis.Client
	script *redis.Script
}

func NewTokenBucket(client *redis.Client) *TokenBucket {
	if client == nil {
		return nil
	}
	return &TokenBucket{
		client: client,
		script: redis.NewScript(tokenBucketScript),
	}
}

func (b *TokenBucket) Allow(ctx context.Context, key string, rate float64, burst int) (bool, error) {
	if b == nil || b.client == nil {
		return false, errors.New("token bucket client not configured")
	}
	if key == "" {
		return false, errors.New("token bucket key is empty")
	}

	ttl := int64((time.Duration(burst) * time.Second * 2).Milliseconds())
	result, err := b.script.Run(ctx, b.client, []string{key}, rate, burst, ttl).Slice()
	if err != nil {
		return false, err
	}
	if len(result) < 1 {
		return false, errors.New("unexpected token bucket reply")
	}
	allowed, ok := result[0].(int64)
	if !ok {
		return false, errors.New("unexpected token bucket reply")
	}
	return allowed == 1, nil
}

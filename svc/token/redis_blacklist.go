package token

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultBlacklistPrefix = "token:blacklist:"

// RedisBlacklist stores one key per revoked jti with a TTL equal to the
// token's remaining lifetime.
type RedisBlacklist struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

type RedisBlacklistOption func(*RedisBlacklist)

func WithBlacklistPrefix(prefix string) RedisBlacklistOption {
	return func(b *RedisBlacklist) { b.prefix = prefix }
}

func WithRedisClock(now func() time.Time) RedisBlacklistOption {
	return func(b *RedisBlacklist) { b.now = now }
}

func NewRedisBlacklist(client redis.UniversalClient, opts ...RedisBlacklistOption) *RedisBlacklist {
	b := &RedisBlacklist{client: client, prefix: DefaultBlacklistPrefix, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *RedisBlacklist) key(jti string) string {
	return b.prefix + jti
}

func (b *RedisBlacklist) Add(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		// Already expired tokens fail validation without a blacklist entry.
		exists, err := b.Contains(ctx, jti)
		return !exists, err
	}

	added, err := b.client.SetNX(ctx, b.key(jti), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to blacklist token: %w", err)
	}
	return added, nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

// internal/auth/redis_blacklist.go
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultBlacklistPrefix = "campustrade:blacklist:"

// RedisBlacklist shares revocations across instances. Entries expire with
// the redis key TTL.
type RedisBlacklist struct {
	client redis.Cmdable
	prefix string
}

func NewRedisBlacklist(client redis.Cmdable, prefix string) *RedisBlacklist {
	if prefix == "" {
		prefix = defaultBlacklistPrefix
	}
	return &RedisBlacklist{client: client, prefix: prefix}
}

func (b *RedisBlacklist) key(jti string) string {
	return b.prefix + jti
}

func (b *RedisBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.key(jti), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

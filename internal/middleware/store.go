package middleware

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore is the subset of Redis commands the middleware layer uses.
// *pkg/redis.Client satisfies it; tests substitute a map-backed fake.
type RedisStore interface {
	Incr(ctx context.Context, key string) *goredis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

package middleware

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// fakeRedis is a map-backed RedisStore for middleware tests
type fakeRedis struct {
	mu       sync.Mutex
	data     map[string]string
	counters map[string]int64

	incrErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		data:     make(map[string]string),
		counters: make(map[string]int64),
	}
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func (f *fakeRedis) Incr(ctx context.Context, key string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrErr != nil {
		return goredis.NewIntResult(0, f.incrErr)
	}
	f.counters[key]++
	return goredis.NewIntResult(f.counters[key], nil)
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd {
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return goredis.NewBoolResult(false, nil)
	}
	f.data[key] = asString(value)
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *goredis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = asString(value)
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

package redis

import (
	"context"
	"sync"
	"time"

	redisClient "github.com/nastyazhadan/order-settlement/shared/infra/redis"
)

type fakeClient struct {
	mu      sync.Mutex
	values  map[string][]byte
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		values:  make(map[string][]byte),
		counts:  make(map[string]int64),
		expires: make(map[string]time.Duration),
	}
}

func (f *fakeClient) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}

	f.values[key] = []byte(value.(string))
	f.expires[key] = ttl
	return nil
}

func (f *fakeClient) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	value, ok := f.values[key]
	if !ok {
		return nil, redisClient.ErrCacheMiss
	}
	return value, nil
}

func (f *fakeClient) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}

	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeClient) Expire(_ context.Context, key string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.expires[key] = expiration
	return nil
}

func (f *fakeClient) Ping(context.Context) error { return f.err }

func (f *fakeClient) Close() error { return nil }

package cache

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/resilience"
)

type guardedStore struct {
	store   Store
	breaker *resilience.Breaker
}

// Guarded routes reads and writes through breaker, so an unreachable store
// costs one fast ErrOpen per request instead of a network timeout. The cache
// already treats store errors as misses. FlushByPattern bypasses the breaker
// because invalidation is an explicit operator action.
func Guarded(store Store, breaker *resilience.Breaker) Store {
	return &guardedStore{store: store, breaker: breaker}
}

func (g *guardedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value []byte
		ok    bool
	)
	err := g.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		value, ok, err = g.store.Get(ctx, key)
		return err
	})
	return value, ok, err
}

func (g *guardedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return g.breaker.Do(ctx, func(ctx context.Context) error {
		return g.store.Set(ctx, key, value, ttl)
	})
}

func (g *guardedStore) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	return g.store.FlushByPattern(ctx, pattern)
}

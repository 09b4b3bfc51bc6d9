package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/metrics"
)

const keyPrefix = "textquery:"

// Store is the key-value backend of the cache; *redis.Client satisfies it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// QueryCache stores executed results keyed by query.Encode, which differs
// for any two queries of different shape or words. Render is not used for
// keys because words may themselves contain operator text.
type QueryCache struct {
	store     Store
	ttl       time.Duration
	namespace string
	metrics   *metrics.Metrics
	group     singleflight.Group
	logger    *slog.Logger
	hits      atomic.Int64
	misses    atomic.Int64
}

// New returns a cache over store. namespace separates results of different
// text sources sharing one Redis; m may be nil.
func New(store Store, ttl time.Duration, namespace string, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:     store,
		ttl:       ttl,
		namespace: namespace,
		metrics:   m,
		logger:    slog.Default().With("component", "query-cache"),
	}
}

// Namespace derives a stable cache namespace for a text source.
func Namespace(source string, lineCount int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s#%d", source, lineCount)))
	return hex.EncodeToString(sum[:6])
}

func (c *QueryCache) Get(ctx context.Context, q query.Query) (*executor.Result, bool) {
	key := c.buildKey(q)
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Error("cache get failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	if !ok {
		c.miss()
		return nil, false
	}
	var result executor.Result
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
	c.logger.Debug("cache hit", "query", result.Query, "key", key)
	return &result, true
}

func (c *QueryCache) Set(ctx context.Context, q query.Query, result *executor.Result) {
	key := c.buildKey(q)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result for q, or runs computeFn once for
// all concurrent callers asking for the same query and caches its result.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	q query.Query,
	computeFn func() (*executor.Result, error),
) (*executor.Result, bool, error) {
	if result, ok := c.Get(ctx, q); ok {
		return result, true, nil
	}
	val, err, _ := c.group.Do(c.buildKey(q), func() (any, error) {
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, q, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*executor.Result), false, nil
}

// Invalidate drops every entry in this cache's namespace.
func (c *QueryCache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+c.namespace+":*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return deleted, nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) miss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

func (c *QueryCache) buildKey(q query.Query) string {
	hash := sha256.Sum256([]byte(query.Encode(q)))
	return fmt.Sprintf("%s%s:%x", keyPrefix, c.namespace, hash[:16])
}

package infra

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"dscatalog/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	productKeyPrefix = "dscatalog:product:"
	// generationStripes spreads per-id generations over a fixed array.
	generationStripes = 256
)

// ProductCache is a read-through cache of product DTOs keyed by product id.
// A nil redis client turns every method into a no-op, so callers never have to
// check whether caching is enabled. Cache failures are logged and swallowed,
// and a Breaker skips Redis entirely while it keeps failing: the database
// stays the source of truth.
//
// Two rules keep a cached DTO from outliving the row it was read from:
//   - an invalidation that could not reach Redis marks the cache dirty, and
//     the next call that gets through flushes every product key first;
//   - Set only stores a DTO when no invalidation touched its id since the
//     caller took Generation, so a read that raced a write is dropped.
type ProductCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	breaker *Breaker

	dirty       atomic.Bool
	epoch       atomic.Uint64 // bumped by InvalidateAll
	generations [generationStripes]atomic.Uint64
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl, breaker: NewBreaker(BreakerConfig{})}
}

// Breaker exposes the cache's breaker for health reporting.
func (c *ProductCache) Breaker() *Breaker { return c.breaker }

func productKey(id int64) string {
	return productKeyPrefix + strconv.FormatInt(id, 10)
}

func (c *ProductCache) stripe(id int64) *atomic.Uint64 {
	return &c.generations[uint64(id)%generationStripes]
}

// Generation is taken before reading a product from the database and handed
// back to Set. Both counters only grow, so their sum changes whenever either
// invalidation runs.
func (c *ProductCache) Generation(id int64) uint64 {
	if c == nil {
		return 0
	}
	return c.epoch.Load() + c.stripe(id).Load()
}

var errCacheDisabled = errors.New("product cache disabled")

// call runs fn against Redis unless the cache is disabled or the breaker is
// open. A pending flush runs first and fn is skipped if it fails. redis.Nil is
// a miss, not a failure.
func (c *ProductCache) call(ctx context.Context, fn func() error) error {
	if c == nil || c.rdb == nil {
		return errCacheDisabled
	}
	if !c.breaker.Allow() {
		return errCacheDisabled
	}
	if c.dirty.CompareAndSwap(true, false) {
		if err := c.flush(ctx); err != nil {
			c.dirty.Store(true)
			c.breaker.Done(err)
			return err
		}
		log.Info().Msg("product cache flushed after missed invalidations")
	}
	err := fn()
	if errors.Is(err, redis.Nil) {
		c.breaker.Done(nil)
	} else {
		c.breaker.Done(err)
	}
	return err
}

// flush deletes every product key, SCAN plus DEL in batches.
func (c *ProductCache) flush(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, productKeyPrefix+"*", 200).Iterator()
	keys := make([]string, 0, 200)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == cap(keys) {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.rdb.Del(ctx, keys...).Err()
	}
	return nil
}

// missed records an invalidation that did not reach Redis.
func (c *ProductCache) missed(err error) {
	if c != nil && c.rdb != nil && err != nil {
		c.dirty.Store(true)
	}
}

func (c *ProductCache) Get(ctx context.Context, id int64) (*dto.ProductDTO, bool) {
	var b []byte
	err := c.call(ctx, func() error {
		var err error
		b, err = c.rdb.Get(ctx, productKey(id)).Bytes()
		return err
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) && !errors.Is(err, errCacheDisabled) {
			log.Warn().Err(err).Int64("product_id", id).Msg("product cache read failed")
		}
		return nil, false
	}
	var p dto.ProductDTO
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// Set stores p unless an invalidation for p.ID ran after generation was taken.
func (c *ProductCache) Set(ctx context.Context, p dto.ProductDTO, generation uint64) {
	if c == nil || c.rdb == nil || c.Generation(p.ID) != generation {
		return
	}
	b, err := json.Marshal(p)
	if err != nil {
		return
	}
	err = c.call(ctx, func() error { return c.rdb.Set(ctx, productKey(p.ID), b, c.ttl).Err() })
	if err != nil {
		if !errors.Is(err, errCacheDisabled) {
			log.Warn().Err(err).Int64("product_id", p.ID).Msg("product cache write failed")
		}
		return
	}
	// an invalidation landed between the check above and the write
	if c.Generation(p.ID) != generation {
		c.missed(c.call(ctx, func() error { return c.rdb.Del(ctx, productKey(p.ID)).Err() }))
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, id int64) {
	if c == nil {
		return
	}
	c.stripe(id).Add(1)
	err := c.call(ctx, func() error { return c.rdb.Del(ctx, productKey(id)).Err() })
	c.missed(err)
	if err != nil && !errors.Is(err, errCacheDisabled) {
		log.Warn().Err(err).Int64("product_id", id).Msg("product cache invalidation failed")
	}
}

// InvalidateAll drops every cached product. A category rename calls it since
// each product DTO embeds its category names.
func (c *ProductCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	c.epoch.Add(1)
	err := c.call(ctx, func() error { return c.flush(ctx) })
	c.missed(err)
	if err != nil && !errors.Is(err, errCacheDisabled) {
		log.Warn().Err(err).Msg("product cache flush failed")
	}
}

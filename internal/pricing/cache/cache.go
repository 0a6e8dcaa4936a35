// Package cache stores price quotes in redis. Entries carry their own
// computed-at stamp; redis TTL is only the hard retention backstop.
package cache

import (
	"context"
	"encoding/json"
	"time"

	pricingdomain "github.com/railzwaylabs/yieldway/internal/pricing/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const scanBatch = 200

type Cache struct {
	client    *redis.Client
	log       *zap.Logger
	retention time.Duration
}

func New(client *redis.Client, log *zap.Logger, retention time.Duration) *Cache {
	return &Cache{
		client:    client,
		log:       log.Named("pricing.cache"),
		retention: retention,
	}
}

func (c *Cache) Get(ctx context.Context, key string) (*pricingdomain.Quote, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var quote pricingdomain.Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		c.log.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return nil, false, nil
	}
	return &quote, true, nil
}

func (c *Cache) Put(ctx context.Context, quote *pricingdomain.Quote) error {
	key := quote.Key()

	// Same-key writes resolve by timestamp: the latest computed-at wins.
	if existing, found, err := c.Get(ctx, key); err == nil && found {
		if existing.ComputedAt.After(quote.ComputedAt) {
			return nil
		}
	}

	raw, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.retention).Err()
}

func (c *Cache) Prune(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-retention)
	removed := 0

	iter := c.client.Scan(ctx, 0, "quote:*", scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		quote, found, err := c.Get(ctx, key)
		if err != nil {
			return removed, err
		}
		if !found {
			continue
		}
		if quote.ComputedAt.Before(cutoff) {
			if err := c.client.Del(ctx, key).Err(); err != nil {
				return removed, err
			}
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	return removed, nil
}

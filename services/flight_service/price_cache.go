package flight_service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/joy095/gowafly/logger"
	"github.com/redis/go-redis/v9"
)

const priceKeyPrefix = "flight_price:"

// PriceCache pins the economy fare of a provider flight the first time it is seen.
// draw is called only when no fare is stored yet.
type PriceCache interface {
	EconomyPrice(ctx context.Context, providerFlightID string, draw func() float64) (float64, error)
}

// RedisPriceCache stores fares in Redis with SETNX so concurrent first sightings agree.
type RedisPriceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPriceCache(client *redis.Client, ttl time.Duration) *RedisPriceCache {
	return &RedisPriceCache{client: client, ttl: ttl}
}

func (c *RedisPriceCache) EconomyPrice(ctx context.Context, providerFlightID string, draw func() float64) (float64, error) {
	key := priceKeyPrefix + providerFlightID

	if price, ok, err := c.lookup(ctx, key); err != nil || ok {
		return price, err
	}

	candidate := draw()
	stored, err := c.client.SetNX(ctx, key, formatPrice(candidate), c.ttl).Result()
	if err != nil {
		return 0, err
	}
	if stored {
		return candidate, nil
	}

	// another request pinned a fare between our GET and SETNX
	price, ok, err := c.lookup(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return candidate, nil
	}
	return price, nil
}

func (c *RedisPriceCache) lookup(ctx context.Context, key string) (float64, bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.WarnLogger.Warnf("Discarding unparsable cached price %q under %s", raw, key)
		return 0, false, c.client.Del(ctx, key).Err()
	}
	return price, true, nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// MemoryPriceCache is the in-process fallback used when Redis is not configured.
type MemoryPriceCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cachedPrice
	now     func() time.Time
}

type cachedPrice struct {
	price   float64
	expires time.Time
}

func NewMemoryPriceCache(ttl time.Duration) *MemoryPriceCache {
	return &MemoryPriceCache{ttl: ttl, entries: map[string]cachedPrice{}, now: time.Now}
}

func (c *MemoryPriceCache) EconomyPrice(_ context.Context, providerFlightID string, draw func() float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if entry, ok := c.entries[providerFlightID]; ok && now.Before(entry.expires) {
		return entry.price, nil
	}
	price := draw()
	c.entries[providerFlightID] = cachedPrice{price: price, expires: now.Add(c.ttl)}
	return price, nil
}

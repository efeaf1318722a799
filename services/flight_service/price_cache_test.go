package flight_service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPriceCacheExpires(t *testing.T) {
	cache := NewMemoryPriceCache(time.Hour)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	draws := 0
	draw := func() float64 { draws++; return float64(2000 + draws) }

	first, err := cache.EconomyPrice(context.Background(), "2026-11-02_TG102", draw)
	require.NoError(t, err)
	again, err := cache.EconomyPrice(context.Background(), "2026-11-02_TG102", draw)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, draws)

	now = now.Add(2 * time.Hour)
	expired, err := cache.EconomyPrice(context.Background(), "2026-11-02_TG102", draw)
	require.NoError(t, err)
	assert.NotEqual(t, first, expired)
}

// Runs against a real Redis when REDIS_URL is set.
func TestRedisPriceCache(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	defer client.Close()

	ctx := context.Background()
	id := "test_" + uuid.NewString()
	defer client.Del(ctx, priceKeyPrefix+id)

	cache := NewRedisPriceCache(client, time.Minute)
	first, err := cache.EconomyPrice(ctx, id, func() float64 { return 4321 })
	require.NoError(t, err)
	second, err := cache.EconomyPrice(ctx, id, func() float64 { return 9999 })
	require.NoError(t, err)

	assert.Equal(t, 4321.0, first)
	assert.Equal(t, 4321.0, second)
}

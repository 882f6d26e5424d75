package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), addr, "")
	assert.Error(t, err)
}

func TestJSONCache(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewJSONCache(client, "aq:")
	ctx := context.Background()

	type reading struct {
		AQI  int    `json:"aqi"`
		City string `json:"city"`
	}

	var got reading
	ok, err := c.Get(ctx, "40.71:-74.01", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "40.71:-74.01", reading{AQI: 42, City: "New York"}, time.Minute))
	assert.True(t, mr.Exists("aq:40.71:-74.01"))
	assert.Equal(t, time.Minute, mr.TTL("aq:40.71:-74.01"))

	ok, err = c.Get(ctx, "40.71:-74.01", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, reading{AQI: 42, City: "New York"}, got)

	mr.FastForward(2 * time.Minute)
	ok, err = c.Get(ctx, "40.71:-74.01", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJSONCache_CorruptValue(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewJSONCache(client, "aq:")
	require.NoError(t, mr.Set("aq:broken", "{not json"))

	var dst map[string]any
	ok, err := c.Get(context.Background(), "broken", &dst)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestWindowCounter_FixedWindow(t *testing.T) {
	mr, client := newTestRedis(t)
	w := NewWindowCounter(client, "rl:")
	ctx := context.Background()

	count, ttl, err := w.Hit(ctx, "1.2.3.4", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 24*time.Hour, ttl)

	mr.FastForward(time.Hour)
	count, ttl, err = w.Hit(ctx, "1.2.3.4", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 23*time.Hour, ttl, "later hits must not extend the window")

	count, _, err = w.Hit(ctx, "5.6.7.8", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	mr.FastForward(24 * time.Hour)
	count, ttl, err = w.Hit(ctx, "1.2.3.4", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestWindowCounter_KeyWithoutExpiryGetsWindow(t *testing.T) {
	mr, client := newTestRedis(t)
	w := NewWindowCounter(client, "rl:")
	ctx := context.Background()

	require.NoError(t, mr.Set("rl:1.2.3.4", "25"))

	count, ttl, err := w.Hit(ctx, "1.2.3.4", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(26), count)
	assert.Equal(t, 24*time.Hour, ttl)
	assert.Equal(t, 24*time.Hour, mr.TTL("rl:1.2.3.4"))

	mr.FastForward(48 * time.Hour)
	count, ttl, err = w.Hit(ctx, "1.2.3.4", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 24*time.Hour, ttl)
}

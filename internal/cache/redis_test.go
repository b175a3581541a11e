package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and a client pointing at it
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestGet_Success(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisCache(client)

	cart := &domain.Cart{
		ID:      4,
		OwnerID: "user123",
		Items: []domain.CartItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
		PaymentIntentRef: "pi_1",
	}
	cartJSON, _ := json.Marshal(cart)
	require.NoError(t, mr.Set(cacheKey("user123"), string(cartJSON)))

	result, err := cache.Get(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.ID)
	assert.Equal(t, "pi_1", result.PaymentIntentRef)
	assert.Len(t, result.Items, 2)
}

func TestGet_CacheMiss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisCache(client)

	result, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisCache(client)

	require.NoError(t, mr.Set(cacheKey("user123"), `{"id":`))

	_, err := cache.Get(context.Background(), "user123")
	require.ErrorContains(t, err, "unmarshal cart:user123 failed")
}

func TestSet_WithTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisCache(client)

	err := cache.Set(context.Background(), "user789", &domain.Cart{OwnerID: "user789", Items: []domain.CartItem{}})
	require.NoError(t, err)

	ttl := mr.TTL(cacheKey("user789"))
	assert.True(t, ttl >= 15*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl < 20*time.Minute, "TTL should be base + max jitter")
}

func TestDelete(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "user999", &domain.Cart{OwnerID: "user999"}))
	assert.True(t, mr.Exists(cacheKey("user999")))

	require.NoError(t, cache.Delete(ctx, "user999"))
	assert.False(t, mr.Exists(cacheKey("user999")))

	assert.NoError(t, cache.Delete(ctx, "nonexistent"))
}

func TestGuestCartStore_ExpiresAfterTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewGuestCartStore(client, time.Hour)
	ctx := context.Background()

	cart := domain.NewCart("guest:abc")
	cart.AddItem(3, 1)
	require.NoError(t, store.Set(ctx, "guest:abc", cart))
	assert.Equal(t, time.Hour, mr.TTL(guestKey("guest:abc")))

	got, err := store.Get(ctx, "guest:abc")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity(3))

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "guest:abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisSnapshotStore(client, time.Hour)
	ctx := context.Background()

	_, err := store.Get(ctx, "user1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	view := &domain.CheckoutView{
		CartID:  9,
		OwnerID: "user1",
		Items:   []domain.CheckoutLineItem{{ProductID: 1, Quantity: 2}},
		Totals:  domain.OrderTotals{ItemCount: 2},
	}
	require.NoError(t, store.Set(ctx, "user1", view))

	got, err := store.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.CartID)
	assert.Equal(t, 2, got.Totals.ItemCount)

	require.NoError(t, store.Delete(ctx, "user1"))
	_, err = store.Get(ctx, "user1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCompletionQueue_FIFO(t *testing.T) {
	client, _ := setupTestRedis(t)
	q := NewRedisCompletionQueue(client)
	ctx := context.Background()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, ErrQueueEmpty)

	require.NoError(t, q.Push(ctx, &domain.Order{UserID: "u1", PaymentIntentRef: "pi_a"}))
	require.NoError(t, q.Push(ctx, &domain.Order{UserID: "u2", PaymentIntentRef: "pi_b"}))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	first, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pi_a", first.PaymentIntentRef)

	second, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pi_b", second.PaymentIntentRef)
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "cart:test123", cacheKey("test123"))
	assert.Equal(t, "guest_cart:guest:x", guestKey("guest:x"))
	assert.Equal(t, "checkout:u", snapshotKey("u"))
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

// GuestCartStore is the only copy of an anonymous shopper's cart. Entries expire after ttl of inactivity.
type GuestCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGuestCartStore(client *redis.Client, ttl time.Duration) *GuestCartStore {
	return &GuestCartStore{client: client, ttl: ttl}
}

func (g *GuestCartStore) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	var cart domain.Cart
	if err := getJSON(ctx, g.client, guestKey(ownerID), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (g *GuestCartStore) Set(ctx context.Context, ownerID string, cart *domain.Cart) error {
	return setJSON(ctx, g.client, guestKey(ownerID), cart, g.ttl)
}

func (g *GuestCartStore) Delete(ctx context.Context, ownerID string) error {
	if err := g.client.Del(ctx, guestKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func guestKey(ownerID string) string {
	return fmt.Sprintf("guest_cart:%s", ownerID)
}

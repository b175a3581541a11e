package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func (s *RedisSnapshotStore) Get(ctx context.Context, ownerID string) (*domain.CheckoutView, error) {
	var view domain.CheckoutView
	if err := getJSON(ctx, s.client, snapshotKey(ownerID), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *RedisSnapshotStore) Set(ctx context.Context, ownerID string, view *domain.CheckoutView) error {
	return setJSON(ctx, s.client, snapshotKey(ownerID), view, s.ttl)
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, ownerID string) error {
	if err := s.client.Del(ctx, snapshotKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func snapshotKey(ownerID string) string {
	return fmt.Sprintf("checkout:%s", ownerID)
}

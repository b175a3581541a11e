package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

const pendingCompletionsKey = "orders:pending_completion"

// RedisCompletionQueue is a FIFO list of orders whose payment was captured but whose write failed.
type RedisCompletionQueue struct {
	client *redis.Client
}

func NewRedisCompletionQueue(client *redis.Client) *RedisCompletionQueue {
	return &RedisCompletionQueue{client: client}
}

func (q *RedisCompletionQueue) Push(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal pending order failed: %w", err)
	}
	if err := q.client.RPush(ctx, pendingCompletionsKey, data).Err(); err != nil {
		return fmt.Errorf("redis rpush failed: %w", err)
	}
	return nil
}

func (q *RedisCompletionQueue) Pop(ctx context.Context) (*domain.Order, error) {
	data, err := q.client.LPop(ctx, pendingCompletionsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis lpop failed: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("unmarshal pending order failed: %w", err)
	}
	return &order, nil
}

func (q *RedisCompletionQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, pendingCompletionsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis llen failed: %w", err)
	}
	return n, nil
}

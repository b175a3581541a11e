package cache

import (
	"context"
	"errors"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
)

type CartCache interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Set(ctx context.Context, ownerID string, cart *domain.Cart) error
	Delete(ctx context.Context, ownerID string) error
}

// SnapshotStore holds the checkout view captured when a shopper enters checkout.
type SnapshotStore interface {
	Get(ctx context.Context, ownerID string) (*domain.CheckoutView, error)
	Set(ctx context.Context, ownerID string, view *domain.CheckoutView) error
	Delete(ctx context.Context, ownerID string) error
}

// CompletionQueue keeps paid orders that could not be recorded yet.
type CompletionQueue interface {
	Push(ctx context.Context, order *domain.Order) error
	Pop(ctx context.Context) (*domain.Order, error)
	Len(ctx context.Context) (int64, error)
}

var (
	ErrCacheMiss  = errors.New("cache miss")
	ErrQueueEmpty = errors.New("queue empty")
)

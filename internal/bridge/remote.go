package bridge

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hortsatta/dot-games-sub000/internal/cache"
	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/hortsatta/dot-games-sub000/internal/repository"
)

type RemotePersistence struct {
	repo  repository.CartRepository
	cache cache.CartCache
}

func NewRemotePersistence(repo repository.CartRepository, c cache.CartCache) *RemotePersistence {
	return &RemotePersistence{repo: repo, cache: c}
}

func (p *RemotePersistence) ReadByOwner(ctx context.Context, ownerID string) (*domain.Cart, error) {
	cart, err := p.cache.Get(ctx, ownerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		slog.WarnContext(ctx, "cart cache get failed", "owner_id", ownerID, "error", err)
	}

	cart, err = p.repo.GetCart(ctx, ownerID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Remote("read cart", err)
	}

	go func(c domain.Cart) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := p.cache.Set(ctx, ownerID, &c); err != nil {
			slog.Warn("cart cache set failed", "owner_id", ownerID, "error", err)
		}
	}(*cart)

	return cart, nil
}

// WriteByOwner writes the row first. The cache is only refreshed once the row is stored.
func (p *RemotePersistence) WriteByOwner(ctx context.Context, cart *domain.Cart) error {
	if err := p.repo.UpsertCart(ctx, cart); err != nil {
		return domain.Remote("write cart", err)
	}

	if err := p.cache.Set(ctx, cart.OwnerID, cart); err != nil {
		slog.WarnContext(ctx, "cart cache set failed, invalidating", "owner_id", cart.OwnerID, "error", err)
		if errDel := p.cache.Delete(ctx, cart.OwnerID); errDel != nil {
			slog.ErrorContext(ctx, "cart cache invalidate failed", "owner_id", cart.OwnerID, "error", errDel)
		}
	}
	return nil
}

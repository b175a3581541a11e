package bridge

import (
	"context"
	"errors"

	"github.com/hortsatta/dot-games-sub000/internal/cache"
	"github.com/hortsatta/dot-games-sub000/internal/domain"
)

type guestStore interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Set(ctx context.Context, ownerID string, cart *domain.Cart) error
}

type LocalOnlyPersistence struct {
	store guestStore
}

func NewLocalOnlyPersistence(store guestStore) *LocalOnlyPersistence {
	return &LocalOnlyPersistence{store: store}
}

func (p *LocalOnlyPersistence) ReadByOwner(ctx context.Context, ownerID string) (*domain.Cart, error) {
	cart, err := p.store.Get(ctx, ownerID)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Remote("read guest cart", err)
	}
	return cart, nil
}

func (p *LocalOnlyPersistence) WriteByOwner(ctx context.Context, cart *domain.Cart) error {
	return domain.Remote("write guest cart", p.store.Set(ctx, cart.OwnerID, cart))
}

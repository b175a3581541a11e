package repository

import (
	"context"
	"errors"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrWishListNotFound = errors.New("wish list not found")
)

// CartRepository is the remote per-user cart row: read it, or write it whole.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
}

type WishListRepository interface {
	GetWishList(ctx context.Context, userID string) (*domain.WishList, error)
	UpsertWishList(ctx context.Context, list *domain.WishList) error
}

package bridge

import (
	"context"
	"errors"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/hortsatta/dot-games-sub000/internal/repository"
)

// RemoteWishLists is the only wish-list strategy: lists exist for signed-in shoppers only.
type RemoteWishLists struct {
	repo repository.WishListRepository
}

func NewRemoteWishLists(repo repository.WishListRepository) *RemoteWishLists {
	return &RemoteWishLists{repo: repo}
}

func (w *RemoteWishLists) ReadByOwner(ctx context.Context, ownerID string) (*domain.WishList, error) {
	list, err := w.repo.GetWishList(ctx, ownerID)
	if errors.Is(err, repository.ErrWishListNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Remote("read wish list", err)
	}
	return list, nil
}

func (w *RemoteWishLists) WriteByOwner(ctx context.Context, list *domain.WishList) error {
	return domain.Remote("write wish list", w.repo.UpsertWishList(ctx, list))
}

package service

import (
	"context"
	"log/slog"

	"github.com/hortsatta/dot-games-sub000/internal/bridge"
	"github.com/hortsatta/dot-games-sub000/internal/domain"
)

type WishListService struct {
	lists bridge.WishListStore
}

func NewWishListService(lists bridge.WishListStore) *WishListService {
	return &WishListService{lists: lists}
}

// Get loads the shopper's wish list. Load failures degrade to an empty list.
func (s *WishListService) Get(ctx context.Context, sess domain.Session) (*domain.WishList, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	list, err := s.lists.ReadByOwner(ctx, sess.UserID)
	if err != nil {
		slog.WarnContext(ctx, "wish list load failed, serving empty list", "user_id", sess.UserID, "error", err)
		return domain.NewWishList(sess.UserID), nil
	}
	if list == nil {
		return domain.NewWishList(sess.UserID), nil
	}
	return list, nil
}

// Toggle flips productID's membership and reports whether it is now on the list.
func (s *WishListService) Toggle(ctx context.Context, sess domain.Session, productID int64) (*domain.WishList, bool, error) {
	if !sess.Authenticated() {
		return nil, false, domain.ErrUnauthenticated
	}

	list, err := s.lists.ReadByOwner(ctx, sess.UserID)
	if err != nil {
		return nil, false, err
	}
	if list == nil {
		list = domain.NewWishList(sess.UserID)
	}

	present := list.Toggle(productID)
	if err := s.lists.WriteByOwner(ctx, list); err != nil {
		return nil, false, err
	}
	return list, present, nil
}

// Empty clears the list. Anonymous callers get false without an error.
func (s *WishListService) Empty(ctx context.Context, sess domain.Session) (bool, error) {
	if !sess.Authenticated() {
		return false, nil
	}

	list, err := s.lists.ReadByOwner(ctx, sess.UserID)
	if err != nil {
		return false, err
	}
	if list == nil {
		return true, nil
	}

	list.Empty()
	if err := s.lists.WriteByOwner(ctx, list); err != nil {
		return false, err
	}
	return true, nil
}

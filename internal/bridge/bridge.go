// Package bridge decides where a shopper's cart lives. Signed-in shoppers get the remote
// row plus a cache, anonymous ones get a local guest entry only.
package bridge

import (
	"context"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
)

// CartStore reads and writes a whole cart by owner. A nil cart with a nil error means no cart exists.
type CartStore interface {
	ReadByOwner(ctx context.Context, ownerID string) (*domain.Cart, error)
	WriteByOwner(ctx context.Context, cart *domain.Cart) error
}

type WishListStore interface {
	ReadByOwner(ctx context.Context, ownerID string) (*domain.WishList, error)
	WriteByOwner(ctx context.Context, list *domain.WishList) error
}

type Bridge struct {
	remote CartStore
	local  CartStore
}

func New(remote, local CartStore) *Bridge {
	return &Bridge{remote: remote, local: local}
}

func (b *Bridge) ForSession(s domain.Session) CartStore {
	if s.Authenticated() {
		return b.remote
	}
	return b.local
}

// Remote returns the signed-in store, for background work keyed by user id.
func (b *Bridge) Remote() CartStore {
	return b.remote
}

// Guest returns the local store regardless of session, for folding a guest cart into a user's.
func (b *Bridge) Guest() CartStore {
	return b.local
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hortsatta/dot-games-sub000/internal/bridge"
	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ProductSource is the slice of the catalog the services price and validate against.
type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProducts(ctx context.Context, ids []int64, activeOnly bool) (map[int64]*domain.Product, error)
}

type CartService struct {
	carts    *bridge.Bridge
	products ProductSource
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(carts *bridge.Bridge, products ProductSource) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
	}
}

// GetCart returns the session's cart. A shopper without a cart gets an unsaved empty one.
func (s *CartService) GetCart(ctx context.Context, sess domain.Session) (*domain.Cart, error) {
	owner, err := ownerOf(sess)
	if err != nil {
		return nil, err
	}

	v, err, _ := s.sfg.Do(owner, func() (interface{}, error) {
		cart, err := s.carts.ForSession(sess).ReadByOwner(ctx, owner)
		if err != nil {
			return nil, err
		}
		if cart == nil {
			cart = domain.NewCart(owner)
		}
		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	cart := *v.(*domain.Cart)
	return &cart, nil
}

// AddItem adds quantity of an active product and returns the cart with the product's new quantity.
func (s *CartService) AddItem(ctx context.Context, sess domain.Session, productID int64, quantity int) (*domain.Cart, int, error) {
	owner, err := ownerOf(sess)
	if err != nil {
		return nil, 0, err
	}
	store := s.carts.ForSession(sess)

	cart, err := store.ReadByOwner(ctx, owner)
	if err != nil {
		return nil, 0, err
	}
	if quantity <= 0 {
		return orEmpty(cart, owner), cart.Quantity(productID), nil
	}

	if err := s.requireActive(ctx, productID); err != nil {
		return nil, 0, err
	}

	if cart == nil {
		cart = domain.NewCart(owner)
	}
	q := cart.AddItem(productID, quantity)
	if err := store.WriteByOwner(ctx, cart); err != nil {
		return nil, 0, err
	}
	return cart, q, nil
}

func (s *CartService) SubtractItem(ctx context.Context, sess domain.Session, productID int64, quantity int) (*domain.Cart, int, error) {
	owner, err := ownerOf(sess)
	if err != nil {
		return nil, 0, err
	}
	store := s.carts.ForSession(sess)

	cart, err := store.ReadByOwner(ctx, owner)
	if err != nil {
		return nil, 0, err
	}
	if cart == nil || quantity <= 0 || cart.Quantity(productID) == 0 {
		return orEmpty(cart, owner), cart.Quantity(productID), nil
	}

	q := cart.SubtractItem(productID, quantity)
	if err := store.WriteByOwner(ctx, cart); err != nil {
		return nil, 0, err
	}
	return cart, q, nil
}

func (s *CartService) RemoveItem(ctx context.Context, sess domain.Session, productID int64) (*domain.Cart, bool, error) {
	owner, err := ownerOf(sess)
	if err != nil {
		return nil, false, err
	}
	store := s.carts.ForSession(sess)

	cart, err := store.ReadByOwner(ctx, owner)
	if err != nil {
		return nil, false, err
	}
	if cart == nil || !cart.RemoveItem(productID) {
		return orEmpty(cart, owner), false, nil
	}

	if err := store.WriteByOwner(ctx, cart); err != nil {
		return nil, false, err
	}
	return cart, true, nil
}

// EmptyCart clears items and the payment intent. The cart row itself is kept.
func (s *CartService) EmptyCart(ctx context.Context, sess domain.Session) (*domain.Cart, error) {
	owner, err := ownerOf(sess)
	if err != nil {
		return nil, err
	}
	store := s.carts.ForSession(sess)

	cart, err := store.ReadByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return domain.NewCart(owner), nil
	}

	cart.Empty()
	if err := store.WriteByOwner(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// MergeGuestCart folds the anonymous cart of this browser into the signed-in user's cart
// and leaves the guest cart empty.
func (s *CartService) MergeGuestCart(ctx context.Context, sess domain.Session) (*domain.Cart, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	guestOwner := sess.GuestOwnerID()
	if guestOwner == "" {
		return s.GetCart(ctx, sess)
	}

	guestStore := s.carts.Guest()
	guest, err := guestStore.ReadByOwner(ctx, guestOwner)
	if err != nil {
		return nil, err
	}
	if guest.State() != domain.CartWithItems {
		return s.GetCart(ctx, sess)
	}

	store := s.carts.ForSession(sess)
	cart, err := store.ReadByOwner(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = domain.NewCart(sess.UserID)
	}

	cart.Merge(guest)
	if err := store.WriteByOwner(ctx, cart); err != nil {
		return nil, err
	}

	guest.Empty()
	if err := guestStore.WriteByOwner(ctx, guest); err != nil {
		slog.WarnContext(ctx, "failed to clear merged guest cart", "owner_id", guestOwner, "error", err)
	}
	return cart, nil
}

// ClearPaidCart empties userID's cart if it still holds the intent that was paid.
// A cart that moved on to a new intent or new items is left alone.
func (s *CartService) ClearPaidCart(ctx context.Context, userID, paymentRef string) (bool, error) {
	return clearPaidCart(ctx, s.carts.Remote(), userID, paymentRef)
}

func clearPaidCart(ctx context.Context, store bridge.CartStore, userID, paymentRef string) (bool, error) {
	cart, err := store.ReadByOwner(ctx, userID)
	if err != nil {
		return false, err
	}
	if cart == nil || cart.PaymentIntentRef != paymentRef {
		return false, nil
	}

	cart.Empty()
	if err := store.WriteByOwner(ctx, cart); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CartService) requireActive(ctx context.Context, productID int64) error {
	p, err := s.products.GetProduct(ctx, productID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return fmt.Errorf("%w: %d", domain.ErrProductNotFound, productID)
	}
	if err != nil {
		return domain.Remote("lookup product", err)
	}
	if !p.Active {
		return fmt.Errorf("%w: %d", domain.ErrProductNotFound, productID)
	}
	return nil
}

func ownerOf(sess domain.Session) (string, error) {
	owner := sess.OwnerID()
	if owner == "" {
		return "", domain.NewValidationError("session", "no user or guest session")
	}
	return owner, nil
}

func orEmpty(cart *domain.Cart, owner string) *domain.Cart {
	if cart == nil {
		return domain.NewCart(owner)
	}
	return cart
}

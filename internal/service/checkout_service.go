package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hortsatta/dot-games-sub000/internal/bridge"
	"github.com/hortsatta/dot-games-sub000/internal/cache"
	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/hortsatta/dot-games-sub000/internal/orders"
	"github.com/hortsatta/dot-games-sub000/internal/payment"
	"github.com/hortsatta/dot-games-sub000/internal/pricing"
	"github.com/shopspring/decimal"
)

var errNoClientSecret = errors.New("payment intent has no client secret")

type CheckoutConfig struct {
	ShippingFee    decimal.Decimal
	Currency       string
	PaymentTimeout time.Duration
}

type CheckoutService struct {
	carts     *bridge.Bridge
	products  ProductSource
	payments  payment.Gateway
	orders    orders.OrderRepository
	snapshots cache.SnapshotStore
	pending   cache.CompletionQueue
	cfg       CheckoutConfig
	now       func() time.Time
}

func NewCheckoutService(
	carts *bridge.Bridge,
	products ProductSource,
	payments payment.Gateway,
	orderRepo orders.OrderRepository,
	snapshots cache.SnapshotStore,
	pending cache.CompletionQueue,
	cfg CheckoutConfig,
) *CheckoutService {
	if cfg.PaymentTimeout == 0 {
		cfg.PaymentTimeout = 10 * time.Second
	}
	return &CheckoutService{
		carts:     carts,
		products:  products,
		payments:  payments,
		orders:    orderRepo,
		snapshots: snapshots,
		pending:   pending,
		cfg:       cfg,
		now:       time.Now,
	}
}

// PrepareCheckout prices the cart against the catalog once and stores the result as the checkout snapshot.
// Lines whose product is gone or inactive are left out and listed in UnavailableProductIDs.
func (s *CheckoutService) PrepareCheckout(ctx context.Context, sess domain.Session) (*domain.CheckoutView, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	cart, err := s.carts.ForSession(sess).ReadByOwner(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	cart = orEmpty(cart, sess.UserID)

	view, err := s.priceCart(ctx, cart)
	if err != nil {
		return nil, err
	}

	s.storeSnapshot(ctx, sess.UserID, view)
	return view, nil
}

// RequestPaymentIntent sizes a payment intent to the cart at current prices and returns its client secret.
// The priced view is kept as the checkout snapshot for that intent.
func (s *CheckoutService) RequestPaymentIntent(ctx context.Context, sess domain.Session) (string, error) {
	if !sess.Authenticated() {
		return "", domain.ErrUnauthenticated
	}

	store := s.carts.ForSession(sess)
	cart, err := store.ReadByOwner(ctx, sess.UserID)
	if err != nil {
		return "", err
	}
	if cart.State() != domain.CartWithItems {
		return "", domain.ErrEmptyCart
	}

	previous := cart.PaymentIntentRef
	intent, view, err := s.ensureIntent(ctx, cart)
	if err != nil {
		return "", err
	}

	if intent.Ref != previous {
		if err := store.WriteByOwner(ctx, cart); err != nil {
			return "", &domain.PaymentIntentError{Err: err}
		}
	}
	s.storeSnapshot(ctx, sess.UserID, view)
	return intent.ClientSecret, nil
}

// PlaceOrder obtains a payment intent and keeps its client secret on the cart for the payment dialog.
// An empty cart is not placed and has no side effects.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sess domain.Session) (domain.Placement, error) {
	if !sess.Authenticated() {
		return domain.Placement{}, domain.ErrUnauthenticated
	}

	store := s.carts.ForSession(sess)
	cart, err := store.ReadByOwner(ctx, sess.UserID)
	if err != nil {
		return domain.Placement{}, err
	}
	if cart.State() != domain.CartWithItems {
		return domain.Placement{Placed: false}, nil
	}

	intent, view, err := s.ensureIntent(ctx, cart)
	if err != nil {
		return domain.Placement{}, err
	}

	cart.ClientSecret = intent.ClientSecret
	if err := store.WriteByOwner(ctx, cart); err != nil {
		return domain.Placement{}, &domain.PaymentIntentError{Err: err}
	}
	s.storeSnapshot(ctx, sess.UserID, view)

	return domain.Placement{
		Placed:           true,
		ClientSecret:     intent.ClientSecret,
		PaymentIntentRef: intent.Ref,
		AmountMinor:      intent.AmountMinor,
	}, nil
}

// CompleteOrder records the paid order and clears the cart. The reported bool is true when this call
// wrote the order. It is safe to retry with the same confirmation: an order already recorded for the
// payment is returned as is.
//
// The payment must be the live intent of the session's cart, and a recorded order is only returned to
// the user who placed it.
func (s *CheckoutService) CompleteOrder(ctx context.Context, sess domain.Session, conf *domain.PaymentConfirmation) (*domain.Order, bool, error) {
	if !sess.Authenticated() {
		return nil, false, domain.ErrUnauthenticated
	}
	if conf == nil || !conf.Succeeded || conf.PaymentIntentRef == "" {
		return nil, false, domain.ErrNoPaymentConfirmation
	}

	store := s.carts.ForSession(sess)

	existing, err := s.orders.GetOrderByPaymentRef(ctx, conf.PaymentIntentRef)
	switch {
	case err == nil:
		return s.replay(ctx, store, sess, existing)
	case !errors.Is(err, orders.ErrOrderNotFound):
		return nil, false, domain.Remote("lookup order", err)
	}

	cart, err := store.ReadByOwner(ctx, sess.UserID)
	if err != nil {
		return nil, false, &domain.OrderPersistenceError{PaymentRef: conf.PaymentIntentRef, Err: err}
	}
	if cart == nil || cart.PaymentIntentRef != conf.PaymentIntentRef {
		slog.WarnContext(ctx, "payment confirmation does not match the cart's intent",
			"user_id", sess.UserID, "payment_ref", conf.PaymentIntentRef)
		return nil, false, domain.ErrPaymentMismatch
	}

	view, err := s.snapshotFor(ctx, cart)
	if err != nil {
		return nil, false, &domain.OrderPersistenceError{PaymentRef: conf.PaymentIntentRef, Err: err}
	}

	order := &domain.Order{
		UserID:           sess.UserID,
		Email:            sess.Email,
		Items:            view.Items,
		Totals:           view.Totals,
		Currency:         view.Currency,
		PaymentIntentRef: conf.PaymentIntentRef,
		ChargeID:         conf.ChargeID,
		Status:           domain.OrderStatusPaid,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, orders.ErrDuplicateOrder) {
			if existing, errGet := s.orders.GetOrderByPaymentRef(ctx, conf.PaymentIntentRef); errGet == nil {
				return s.replay(ctx, store, sess, existing)
			}
		}

		slog.ErrorContext(ctx, "paid order not recorded, queued for reconciliation",
			"user_id", sess.UserID, "payment_ref", conf.PaymentIntentRef, "error", err)
		if errPush := s.pending.Push(ctx, order); errPush != nil {
			slog.ErrorContext(ctx, "failed to queue paid order", "payment_ref", conf.PaymentIntentRef, "error", errPush)
		}
		return nil, false, &domain.OrderPersistenceError{PaymentRef: conf.PaymentIntentRef, Err: err}
	}

	slog.InfoContext(ctx, "order recorded", "order_id", order.ID, "user_id", order.UserID, "total", order.Totals.Total.String())
	s.finalize(ctx, store, sess.UserID, order.PaymentIntentRef)
	return order, true, nil
}

func (s *CheckoutService) replay(ctx context.Context, store bridge.CartStore, sess domain.Session, existing *domain.Order) (*domain.Order, bool, error) {
	if existing.UserID != sess.UserID {
		slog.WarnContext(ctx, "payment ref belongs to another user's order",
			"user_id", sess.UserID, "payment_ref", existing.PaymentIntentRef)
		return nil, false, orders.ErrOrderNotFound
	}
	s.finalize(ctx, store, sess.UserID, existing.PaymentIntentRef)
	return existing, false, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, sess domain.Session) ([]*domain.Order, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	list, err := s.orders.ListOrdersByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, domain.Remote("list orders", err)
	}
	return list, nil
}

// GetOrder returns one of the session's orders. Orders of other users are reported as not found.
func (s *CheckoutService) GetOrder(ctx context.Context, sess domain.Session, id int64) (*domain.Order, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	order, err := s.orders.GetOrderByID(ctx, id)
	if errors.Is(err, orders.ErrOrderNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, domain.Remote("get order", err)
	}
	if order.UserID != sess.UserID {
		return nil, orders.ErrOrderNotFound
	}
	return order, nil
}

// ensureIntent re-prices the cart from the catalog and updates the cart's live intent, or creates one.
// The new ref is set on cart but not written. The returned view carries the prices the intent was sized from.
func (s *CheckoutService) ensureIntent(ctx context.Context, cart *domain.Cart) (*payment.Intent, *domain.CheckoutView, error) {
	view, err := s.priceCart(ctx, cart)
	if err != nil {
		return nil, nil, &domain.PaymentIntentError{Err: err}
	}
	if len(view.Items) == 0 {
		return nil, nil, &domain.PaymentIntentError{Err: domain.ErrEmptyCart}
	}

	items := make([]payment.IntentItem, 0, len(view.Items))
	for _, line := range view.Items {
		items = append(items, payment.IntentItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	amount := pricing.ToMinorUnits(view.Totals.Total)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.PaymentTimeout)
	defer cancel()

	var intent *payment.Intent
	if cart.PaymentIntentRef != "" {
		intent, err = s.payments.UpdateIntent(ctx, cart.PaymentIntentRef, amount)
		if errors.Is(err, payment.ErrIntentNotFound) {
			slog.WarnContext(ctx, "stored payment intent is gone, creating a new one", "payment_ref", cart.PaymentIntentRef)
			intent = nil
			err = nil
		}
	}
	if intent == nil && err == nil {
		intent, err = s.payments.CreateIntent(ctx, payment.IntentRequest{
			CartID:      cart.ID,
			CustomerID:  cart.OwnerID,
			AmountMinor: amount,
			Currency:    s.cfg.Currency,
			Items:       items,
		})
	}
	if err != nil {
		return nil, nil, &domain.PaymentIntentError{Err: err}
	}
	if intent == nil || intent.ClientSecret == "" {
		return nil, nil, &domain.PaymentIntentError{Err: errNoClientSecret}
	}

	cart.PaymentIntentRef = intent.Ref
	view.PaymentIntentRef = intent.Ref
	return intent, view, nil
}

func (s *CheckoutService) priceCart(ctx context.Context, cart *domain.Cart) (*domain.CheckoutView, error) {
	view := &domain.CheckoutView{
		CartID:     cart.ID,
		OwnerID:    cart.OwnerID,
		Items:      []domain.CheckoutLineItem{},
		Currency:   s.cfg.Currency,
		CapturedAt: s.now().UTC(),
	}

	if len(cart.Items) > 0 {
		products, err := s.products.GetProducts(ctx, cart.ProductIDs(), true)
		if err != nil {
			return nil, domain.Remote("load products", err)
		}

		for _, item := range cart.Items {
			p, ok := products[item.ProductID]
			if !ok {
				view.UnavailableProductIDs = append(view.UnavailableProductIDs, item.ProductID)
				continue
			}
			view.Items = append(view.Items, pricing.PriceLine(p, item.Quantity))
		}
	}

	view.Totals = pricing.ComputeOrderTotals(pricing.Lines(view.Items), s.cfg.ShippingFee)
	return view, nil
}

func (s *CheckoutService) storeSnapshot(ctx context.Context, userID string, view *domain.CheckoutView) {
	if err := s.snapshots.Set(ctx, userID, view); err != nil {
		slog.WarnContext(ctx, "failed to store checkout snapshot", "user_id", userID, "error", err)
	}
}

// snapshotFor returns the view the cart's payment intent was priced from. A snapshot that expired, or
// that was taken for other lines or another intent, is replaced by pricing the cart again.
func (s *CheckoutService) snapshotFor(ctx context.Context, cart *domain.Cart) (*domain.CheckoutView, error) {
	view, err := s.snapshots.Get(ctx, cart.OwnerID)
	switch {
	case err == nil && view.PaymentIntentRef == cart.PaymentIntentRef && view.Matches(cart):
		return view, nil
	case err == nil:
		slog.InfoContext(ctx, "checkout snapshot is stale, repricing", "user_id", cart.OwnerID, "payment_ref", cart.PaymentIntentRef)
	case !errors.Is(err, cache.ErrCacheMiss):
		slog.WarnContext(ctx, "checkout snapshot read failed, repricing", "user_id", cart.OwnerID, "error", err)
	}

	view, err = s.priceCart(ctx, cart)
	if err != nil {
		return nil, fmt.Errorf("reprice cart: %w", err)
	}
	return view, nil
}

// finalize clears the cart and the checkout snapshot once the order paid with paymentRef is on record.
// A cart or snapshot that already moved on to another intent is left alone. Failures are logged: the
// order.paid consumer clears the cart again.
func (s *CheckoutService) finalize(ctx context.Context, store bridge.CartStore, userID, paymentRef string) {
	if _, err := clearPaidCart(ctx, store, userID, paymentRef); err != nil {
		slog.WarnContext(ctx, "failed to clear cart after order", "user_id", userID, "error", err)
	}
	dropPaidSnapshot(ctx, s.snapshots, userID, paymentRef)
}

func dropPaidSnapshot(ctx context.Context, snapshots cache.SnapshotStore, userID, paymentRef string) {
	view, err := snapshots.Get(ctx, userID)
	if errors.Is(err, cache.ErrCacheMiss) {
		return
	}
	if err == nil && view.PaymentIntentRef != "" && view.PaymentIntentRef != paymentRef {
		return
	}
	if err := snapshots.Delete(ctx, userID); err != nil {
		slog.WarnContext(ctx, "failed to drop checkout snapshot", "user_id", userID, "error", err)
	}
}

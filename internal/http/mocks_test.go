package http

import (
	"context"
	"sync"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
)

type MockCatalog struct {
	products map[int64]*domain.Product
	err      error
}

func (m *MockCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (m *MockCatalog) GetProducts(_ context.Context, ids []int64, activeOnly bool) (map[int64]*domain.Product, error) {
	out := make(map[int64]*domain.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok && (!activeOnly || p.Active) {
			out[id] = p
		}
	}
	return out, m.err
}

func (m *MockCatalog) ListProducts(context.Context) ([]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Product
	for i := int64(1); i <= int64(len(m.products)); i++ {
		if p, ok := m.products[i]; ok && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// MockCarts records the session and arguments of the last call.
type MockCarts struct {
	mu       sync.Mutex
	cart     *domain.Cart
	quantity int
	removed  bool
	err      error

	calls       int
	lastSession domain.Session
	lastProduct int64
	lastQty     int
}

func (m *MockCarts) record(sess domain.Session, productID int64, qty int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastSession = sess
	m.lastProduct = productID
	m.lastQty = qty
}

func (m *MockCarts) result() *domain.Cart {
	if m.cart == nil {
		return domain.NewCart("owner")
	}
	return m.cart
}

func (m *MockCarts) GetCart(_ context.Context, sess domain.Session) (*domain.Cart, error) {
	m.record(sess, 0, 0)
	if m.err != nil {
		return nil, m.err
	}
	return m.result(), nil
}

func (m *MockCarts) AddItem(_ context.Context, sess domain.Session, productID int64, qty int) (*domain.Cart, int, error) {
	m.record(sess, productID, qty)
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.result(), m.quantity, nil
}

func (m *MockCarts) SubtractItem(_ context.Context, sess domain.Session, productID int64, qty int) (*domain.Cart, int, error) {
	m.record(sess, productID, qty)
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.result(), m.quantity, nil
}

func (m *MockCarts) RemoveItem(_ context.Context, sess domain.Session, productID int64) (*domain.Cart, bool, error) {
	m.record(sess, productID, 0)
	if m.err != nil {
		return nil, false, m.err
	}
	return m.result(), m.removed, nil
}

func (m *MockCarts) EmptyCart(_ context.Context, sess domain.Session) (*domain.Cart, error) {
	m.record(sess, 0, 0)
	if m.err != nil {
		return nil, m.err
	}
	return m.result(), nil
}

func (m *MockCarts) MergeGuestCart(_ context.Context, sess domain.Session) (*domain.Cart, error) {
	m.record(sess, 0, 0)
	if m.err != nil {
		return nil, m.err
	}
	return m.result(), nil
}

type MockWishLists struct {
	list    *domain.WishList
	present bool
	err     error
	lastID  int64
}

func (m *MockWishLists) Get(_ context.Context, sess domain.Session) (*domain.WishList, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return m.list, m.err
}

func (m *MockWishLists) Toggle(_ context.Context, sess domain.Session, productID int64) (*domain.WishList, bool, error) {
	m.lastID = productID
	if !sess.Authenticated() {
		return nil, false, domain.ErrUnauthenticated
	}
	return m.list, m.present, m.err
}

func (m *MockWishLists) Empty(_ context.Context, sess domain.Session) (bool, error) {
	return sess.Authenticated(), m.err
}

type MockCheckout struct {
	view      *domain.CheckoutView
	placement domain.Placement
	secret    string
	order     *domain.Order
	orders    []*domain.Order
	err       error

	lastConf    *domain.PaymentConfirmation
	replayed    bool
	lastOrderID int64
}

func (m *MockCheckout) PrepareCheckout(context.Context, domain.Session) (*domain.CheckoutView, error) {
	return m.view, m.err
}

func (m *MockCheckout) RequestPaymentIntent(context.Context, domain.Session) (string, error) {
	return m.secret, m.err
}

func (m *MockCheckout) PlaceOrder(context.Context, domain.Session) (domain.Placement, error) {
	return m.placement, m.err
}

func (m *MockCheckout) CompleteOrder(_ context.Context, _ domain.Session, conf *domain.PaymentConfirmation) (*domain.Order, bool, error) {
	m.lastConf = conf
	return m.order, !m.replayed && m.err == nil, m.err
}

func (m *MockCheckout) ListOrders(context.Context, domain.Session) ([]*domain.Order, error) {
	return m.orders, m.err
}

func (m *MockCheckout) GetOrder(_ context.Context, _ domain.Session, id int64) (*domain.Order, error) {
	m.lastOrderID = id
	return m.order, m.err
}

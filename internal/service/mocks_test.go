package service

import (
	"context"
	"errors"
	"sync"

	"github.com/hortsatta/dot-games-sub000/internal/bridge"
	"github.com/hortsatta/dot-games-sub000/internal/cache"
	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/hortsatta/dot-games-sub000/internal/orders"
	"github.com/hortsatta/dot-games-sub000/internal/payment"
	"github.com/shopspring/decimal"
)

// MockCartStore implements bridge.CartStore over a map, handing out copies.
type MockCartStore struct {
	mu       sync.Mutex
	carts    map[string]*domain.Cart
	ReadErr  error
	WriteErr error
	Writes   int
	nextID   int64
	assignID bool
}

func newMockCartStore(assignID bool) *MockCartStore {
	return &MockCartStore{carts: map[string]*domain.Cart{}, assignID: assignID}
}

func (m *MockCartStore) ReadByOwner(_ context.Context, ownerID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	c, ok := m.carts[ownerID]
	if !ok {
		return nil, nil
	}
	return cloneCart(c), nil
}

func (m *MockCartStore) WriteByOwner(_ context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if m.assignID && cart.ID == 0 {
		m.nextID++
		cart.ID = m.nextID
	}
	m.Writes++
	m.carts[cart.OwnerID] = cloneCart(cart)
	return nil
}

func (m *MockCartStore) put(cart *domain.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.OwnerID] = cloneCart(cart)
}

func (m *MockCartStore) get(ownerID string) *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[ownerID]; ok {
		return cloneCart(c)
	}
	return nil
}

func cloneCart(c *domain.Cart) *domain.Cart {
	cp := *c
	cp.Items = append([]domain.CartItem{}, c.Items...)
	return &cp
}

type MockWishListStore struct {
	lists    map[string]*domain.WishList
	ReadErr  error
	WriteErr error
	Writes   int
}

func newMockWishListStore() *MockWishListStore {
	return &MockWishListStore{lists: map[string]*domain.WishList{}}
}

func (m *MockWishListStore) ReadByOwner(_ context.Context, ownerID string) (*domain.WishList, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	l, ok := m.lists[ownerID]
	if !ok {
		return nil, nil
	}
	cp := *l
	cp.ProductIDs = append([]int64{}, l.ProductIDs...)
	return &cp, nil
}

func (m *MockWishListStore) WriteByOwner(_ context.Context, list *domain.WishList) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Writes++
	cp := *list
	cp.ProductIDs = append([]int64{}, list.ProductIDs...)
	m.lists[list.OwnerID] = &cp
	return nil
}

// MockProducts implements ProductSource.
type MockProducts struct {
	mu            sync.Mutex
	Products      map[int64]*domain.Product
	Err           error
	GetManyCalls  int
	LastActiveReq bool
}

func newMockProducts(products ...*domain.Product) *MockProducts {
	m := &MockProducts{Products: map[int64]*domain.Product{}}
	for _, p := range products {
		m.Products[p.ID] = p
	}
	return m
}

func (m *MockProducts) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProducts) GetProducts(_ context.Context, ids []int64, activeOnly bool) (map[int64]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetManyCalls++
	m.LastActiveReq = activeOnly
	if m.Err != nil {
		return nil, m.Err
	}
	out := map[int64]*domain.Product{}
	for _, id := range ids {
		p, ok := m.Products[id]
		if !ok || (activeOnly && !p.Active) {
			continue
		}
		cp := *p
		out[id] = &cp
	}
	return out, nil
}

func (m *MockProducts) setPrice(id int64, price string, discount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Products[id].BasePrice = decimal.RequireFromString(price)
	m.Products[id].DiscountPercent = discount
}

// MockGateway implements payment.Gateway on top of the sandbox while counting calls.
type MockGateway struct {
	sandbox     *payment.Sandbox
	Creates     int
	Updates     int
	LastAmount  int64
	CreateErr   error
	UpdateErr   error
	EmptySecret bool
}

func newMockGateway() *MockGateway {
	return &MockGateway{sandbox: payment.NewSandbox()}
}

func (m *MockGateway) CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	m.Creates++
	m.LastAmount = req.AmountMinor
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	intent, err := m.sandbox.CreateIntent(ctx, req)
	if err == nil && m.EmptySecret {
		intent.ClientSecret = ""
	}
	return intent, err
}

func (m *MockGateway) UpdateIntent(ctx context.Context, ref string, amountMinor int64) (*payment.Intent, error) {
	m.Updates++
	m.LastAmount = amountMinor
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	return m.sandbox.UpdateIntent(ctx, ref, amountMinor)
}

// MockOrderRepository implements orders.OrderRepository.
type MockOrderRepository struct {
	mu        sync.Mutex
	byRef     map[string]*domain.Order
	CreateErr error
	Creates   int
	nextID    int64
}

func newMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{byRef: map[string]*domain.Order{}}
}

func (m *MockOrderRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Creates++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, ok := m.byRef[order.PaymentIntentRef]; ok {
		return orders.ErrDuplicateOrder
	}
	m.nextID++
	order.ID = m.nextID
	cp := *order
	m.byRef[order.PaymentIntentRef] = &cp
	return nil
}

func (m *MockOrderRepository) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.byRef {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, orders.ErrOrderNotFound
}

func (m *MockOrderRepository) GetOrderByPaymentRef(_ context.Context, ref string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byRef[ref]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepository) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Order
	for _, o := range m.byRef {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockOrderRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byRef)
}

// MockSnapshots implements cache.SnapshotStore.
type MockSnapshots struct {
	views map[string]*domain.CheckoutView
}

func newMockSnapshots() *MockSnapshots {
	return &MockSnapshots{views: map[string]*domain.CheckoutView{}}
}

func (m *MockSnapshots) Get(_ context.Context, ownerID string) (*domain.CheckoutView, error) {
	v, ok := m.views[ownerID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (m *MockSnapshots) Set(_ context.Context, ownerID string, view *domain.CheckoutView) error {
	m.views[ownerID] = view
	return nil
}

func (m *MockSnapshots) Delete(_ context.Context, ownerID string) error {
	delete(m.views, ownerID)
	return nil
}

// MockQueue implements cache.CompletionQueue.
type MockQueue struct {
	items   []*domain.Order
	PushErr error
}

func (m *MockQueue) Push(_ context.Context, order *domain.Order) error {
	if m.PushErr != nil {
		return m.PushErr
	}
	cp := *order
	m.items = append(m.items, &cp)
	return nil
}

func (m *MockQueue) Pop(_ context.Context) (*domain.Order, error) {
	if len(m.items) == 0 {
		return nil, cache.ErrQueueEmpty
	}
	o := m.items[0]
	m.items = m.items[1:]
	return o, nil
}

func (m *MockQueue) Len(_ context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

var errBoom = errors.New("boom")

func product(id int64, name, price string, discount int) *domain.Product {
	return &domain.Product{
		ID:              id,
		Name:            name,
		BasePrice:       decimal.RequireFromString(price),
		DiscountPercent: discount,
		Active:          true,
	}
}

func newTestBridge(remote, local *MockCartStore) *bridge.Bridge {
	return bridge.New(remote, local)
}

package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/identity"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/rs/zerolog"
)

type mockCart struct {
	mu        sync.Mutex
	lines     []domain.CartLine
	sessionID string
	err       error
	added     []domain.Product
	total     int64
}

func (m *mockCart) AddItem(_ context.Context, product domain.Product, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, product)
	m.lines = append(m.lines, domain.CartLine{ProductID: product.ID, Product: product.Snapshot(), Quantity: quantity})
	return nil
}

func (m *mockCart) UpdateQuantity(_ context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines[i].Quantity = quantity
		}
	}
	return nil
}

func (m *mockCart) RemoveItem(_ context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	kept := m.lines[:0]
	for _, l := range m.lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	m.lines = kept
	return nil
}

func (m *mockCart) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.lines = nil
	m.sessionID = ""
	return nil
}

func (m *mockCart) Lines() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartLine(nil), m.lines...)
}

// Total reports the preset total when one is set.
func (m *mockCart) Total() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.total != 0 {
		return m.total
	}
	var sum int64
	for _, l := range m.lines {
		sum += l.Subtotal()
	}
	return sum
}

func (m *mockCart) CheckoutSessionRef() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

type mockCatalog struct {
	products map[string]*domain.Product
	err      error
	created  *domain.Product
	archived string
}

func newMockCatalog(products ...domain.Product) *mockCatalog {
	c := &mockCatalog{products: map[string]*domain.Product{}}
	for i := range products {
		c.products[products[i].ID] = &products[i]
	}
	return c
}

func (m *mockCatalog) ListProducts(context.Context) ([]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Product
	for _, p := range m.products {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockCatalog) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	created := *p
	created.Active = true
	m.created = &created
	return &created, nil
}

func (m *mockCatalog) UpdateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.products[p.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	m.products[p.ID] = p
	return p, nil
}

func (m *mockCatalog) ArchiveProduct(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.archived = id
	return nil
}

type mockInitiator struct {
	result *checkout.Result
	err    error
	req    checkout.Request
}

func (m *mockInitiator) CreateCheckoutSession(_ context.Context, req checkout.Request, nav checkout.Navigator) (*checkout.Result, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	nav.Navigate(m.result.Session.RedirectURL)
	return m.result, nil
}

type mockFinalizer struct {
	result    *orders.ReturnResult
	err       error
	sessionID string
}

func (m *mockFinalizer) FinalizeFromReturn(_ context.Context, sessionID string) (*orders.ReturnResult, error) {
	m.sessionID = sessionID
	return m.result, m.err
}

type mockQueries struct {
	orders []*domain.Order
	err    error
}

func (m *mockQueries) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetOrderBySession hides other shoppers' orders the way orders.Queries does.
func (m *mockQueries) GetOrderBySession(ctx context.Context, sessionID string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	who, ok := identity.FromContext(ctx)
	if !ok {
		return nil, domain.ErrAuthRequired
	}
	for _, o := range m.orders {
		if o.CheckoutSessionRef == sessionID && (o.UserRef == who.UserID || who.Admin) {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockQueries) ListOrders(context.Context) ([]*domain.Order, error) {
	return m.orders, m.err
}

type mockReconciler struct {
	order *domain.Order
	err   error
	calls int
}

func (m *mockReconciler) Reconcile(context.Context, string) (*domain.Order, error) {
	m.calls++
	return m.order, m.err
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error {
	return m.err
}

type testServer struct {
	cart       *mockCart
	catalog    *mockCatalog
	initiator  *mockInitiator
	finalizer  *mockFinalizer
	queries    *mockQueries
	reconciler *mockReconciler
	pinger     mockPinger
}

func newTestServer() *testServer {
	return &testServer{
		cart:       &mockCart{},
		catalog:    newMockCatalog(),
		initiator:  &mockInitiator{},
		finalizer:  &mockFinalizer{},
		queries:    &mockQueries{},
		reconciler: &mockReconciler{},
	}
}

func (s *testServer) router() http.Handler {
	timeout := 5 * time.Second
	return NewRouter(Handlers{
		Cart:     NewCartHandler(s.cart, s.catalog, timeout),
		Checkout: NewCheckoutHandler(s.initiator, s.finalizer, "https://shop.example/", timeout),
		Orders:   NewOrdersHandler(s.queries, s.reconciler, timeout),
		Products: NewProductHandler(s.catalog, timeout),
		Health:   NewHealthHandler(s.pinger, timeout),
	}, zerolog.Nop(), nil, timeout)
}

func activeProduct(id string, priceCents int64) domain.Product {
	return domain.Product{ID: id, Name: "Product " + id, Description: "desc", PriceCents: priceCents, Active: true}
}

func paidOrder(id, userRef string) *domain.Order {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Order{
		ID:                 id,
		UserRef:            userRef,
		Status:             domain.OrderStatusPaid,
		TotalAmountCents:   5998,
		Currency:           domain.DefaultCurrency,
		Items:              []domain.LineItem{{ProductID: "p1", Name: "Screen", UnitPriceCents: 2999, Quantity: 2, Currency: domain.DefaultCurrency}},
		CheckoutSessionRef: "cs_" + id,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

package checkout

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/identity"
)

type mockCart struct {
	lines   []domain.CartLine
	marked  []string
	markErr error
}

func (m *mockCart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(m.lines))
	copy(out, m.lines)
	return out
}

func (m *mockCart) MarkCheckout(_ context.Context, sessionID string) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.marked = append(m.marked, sessionID)
	return nil
}

type mockPrices struct {
	products map[string]*domain.Product
}

func (m *mockPrices) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type mockProvider struct {
	session *domain.CheckoutSession
	err     error
	calls   int
	items   []domain.LineItem
	returns domain.ReturnTargets
}

func (m *mockProvider) CreateCheckoutSession(_ context.Context, items []domain.LineItem, returns domain.ReturnTargets) (*domain.CheckoutSession, error) {
	m.calls++
	m.items = items
	m.returns = returns
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

type mockOrders struct {
	recorded  []*domain.Order
	recordErr error
	byKey     map[string]*domain.Order
	findErr   error
}

func (m *mockOrders) RecordOrder(_ context.Context, order *domain.Order) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, order)
	return nil
}

func (m *mockOrders) FindPendingByIdempotencyKey(_ context.Context, _, key string) (*domain.Order, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if o, ok := m.byKey[key]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

type recordingNavigator struct {
	targets []string
}

func (n *recordingNavigator) Navigate(redirectURL string) {
	n.targets = append(n.targets, redirectURL)
}

func signedIn(userID string) identity.Current {
	return func(context.Context) (identity.Identity, bool) {
		return identity.Identity{UserID: userID}, true
	}
}

func anonymous(context.Context) (identity.Identity, bool) {
	return identity.Identity{}, false
}

var errProviderDown = errors.New("connection refused")

func line(id, name string, price int64, qty int) domain.CartLine {
	return domain.CartLine{
		ProductID: id,
		Product:   domain.ProductSnapshot{Name: name, Description: name + " desc", UnitPriceCents: price},
		Quantity:  qty,
	}
}

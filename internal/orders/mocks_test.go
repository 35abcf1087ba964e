package orders

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	r "github.com/fjod/go_storefront/internal/orders/repository"
)

type mockProvider struct {
	status *domain.ProviderStatus
	err    error
	calls  atomic.Int32
	// delay holds each call open so concurrent reconciles overlap
	delay time.Duration
}

func (m *mockProvider) GetSessionStatus(ctx context.Context, sessionID string) (*domain.ProviderStatus, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	st := *m.status
	st.SessionID = sessionID
	return &st, nil
}

type mockStore struct {
	mu          sync.Mutex
	order       *domain.Order
	getErr      error
	transitions int
	events      []*r.OutboxEvent
	transErr    error
}

func (m *mockStore) GetOrderBySession(_ context.Context, sessionID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.order == nil || m.order.CheckoutSessionRef != sessionID {
		return nil, r.ErrOrderNotFound
	}
	c := *m.order
	return &c, nil
}

func (m *mockStore) TransitionStatus(_ context.Context, id string, from, to domain.OrderStatus, event *r.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transErr != nil {
		return m.transErr
	}
	if m.order.ID != id || m.order.Status != from {
		return r.ErrStaleStatus
	}
	m.order.Status = to
	m.transitions++
	m.events = append(m.events, event)
	return nil
}

func (m *mockStore) current() domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.order
}

type mockCart struct {
	session string
	cleared int
	err     error
}

func (m *mockCart) ClearIfSession(_ context.Context, sessionID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if sessionID != m.session {
		return false, nil
	}
	m.session = ""
	m.cleared++
	return true, nil
}

func pendingOrder(sessionID string) *domain.Order {
	return &domain.Order{
		ID:                 "o-" + sessionID,
		UserRef:            "u1",
		Status:             domain.OrderStatusPending,
		TotalAmountCents:   5998,
		Currency:           "USD",
		CheckoutSessionRef: sessionID,
	}
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

// MemoryRepository keeps orders in process memory. It is meant for local runs
// without Postgres and loses everything on restart.
type MemoryRepository struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	bySession map[string]string
	outbox    []*OutboxEvent
	processed map[int64]bool
	nextID    int64
	now       func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders:    make(map[string]*domain.Order),
		bySession: make(map[string]string),
		processed: make(map[int64]bool),
		now:       time.Now,
	}
}

func (m *MemoryRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[order.ID]; ok {
		return ErrDuplicateSession
	}
	if _, ok := m.bySession[order.CheckoutSessionRef]; ok {
		return ErrDuplicateSession
	}
	if order.IdempotencyKey != "" {
		for _, o := range m.orders {
			if o.UserRef == order.UserRef && o.IdempotencyKey == order.IdempotencyKey && o.Status == domain.OrderStatusPending {
				return ErrDuplicateSession
			}
		}
	}

	m.orders[order.ID] = copyOrder(order)
	m.bySession[order.CheckoutSessionRef] = order.ID
	return nil
}

func (m *MemoryRepository) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (m *MemoryRepository) GetOrderBySession(_ context.Context, sessionID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.bySession[sessionID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(m.orders[id]), nil
}

func (m *MemoryRepository) FindPendingByIdempotencyKey(_ context.Context, userRef, key string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.UserRef == userRef && o.IdempotencyKey == key && o.Status == domain.OrderStatusPending {
			return copyOrder(o), nil
		}
	}
	return nil, ErrOrderNotFound
}

func (m *MemoryRepository) ListOrdersByUser(_ context.Context, userRef string) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]*domain.Order, 0)
	for _, o := range m.orders {
		if o.UserRef == userRef {
			orders = append(orders, copyOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *MemoryRepository) TransitionStatus(_ context.Context, id string, from, to domain.OrderStatus, event *OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Status != from {
		return ErrStaleStatus
	}
	o.Status = to
	o.UpdatedAt = m.now().UTC()

	if event != nil {
		m.nextID++
		e := *event
		e.ID = m.nextID
		e.CreatedAt = o.UpdatedAt
		m.outbox = append(m.outbox, &e)
	}
	return nil
}

func (m *MemoryRepository) GetUnprocessedEvents(_ context.Context, limit int) ([]*OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []*OutboxEvent
	for _, e := range m.outbox {
		if len(events) == limit {
			break
		}
		if !m.processed[e.ID] {
			c := *e
			events = append(events, &c)
		}
	}
	return events, nil
}

func (m *MemoryRepository) MarkEventAsProcessed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed[id] = true
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}

func copyOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.LineItem(nil), o.Items...)
	return &c
}

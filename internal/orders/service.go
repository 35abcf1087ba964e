package orders

import (
	"context"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/identity"
	r "github.com/fjod/go_storefront/internal/orders/repository"
)

type Reader interface {
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	GetOrderBySession(ctx context.Context, sessionID string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userRef string) ([]*domain.Order, error)
}

// Queries serves order history to the signed-in shopper.
type Queries struct {
	identity identity.Current
	reader   Reader
}

func NewQueries(current identity.Current, reader Reader) *Queries {
	return &Queries{identity: current, reader: reader}
}

// GetOrder returns the order when it belongs to the caller. Admins may read any order.
func (q *Queries) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	who, ok := q.identity(ctx)
	if !ok {
		return nil, domain.ErrAuthRequired
	}
	return owned(who)(q.reader.GetOrderByID(ctx, id))
}

// GetOrderBySession resolves the order created for a checkout session, with the
// same visibility as GetOrder.
func (q *Queries) GetOrderBySession(ctx context.Context, sessionID string) (*domain.Order, error) {
	who, ok := q.identity(ctx)
	if !ok {
		return nil, domain.ErrAuthRequired
	}
	return owned(who)(q.reader.GetOrderBySession(ctx, sessionID))
}

func owned(who identity.Identity) func(*domain.Order, error) (*domain.Order, error) {
	return func(order *domain.Order, err error) (*domain.Order, error) {
		if err != nil {
			return nil, err
		}
		if order.UserRef != who.UserID && !who.Admin {
			// hide other shoppers' orders
			return nil, fmt.Errorf("order %w", domain.ErrNotFound)
		}
		return order, nil
	}
}

// ListOrders returns the caller's orders, newest first.
func (q *Queries) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	who, ok := q.identity(ctx)
	if !ok {
		return nil, domain.ErrAuthRequired
	}
	return q.reader.ListOrdersByUser(ctx, who.UserID)
}

// Ledger records orders created by checkout.
type Ledger struct {
	repo r.OrderRepository
}

func NewLedger(repo r.OrderRepository) *Ledger {
	return &Ledger{repo: repo}
}

func (l *Ledger) RecordOrder(ctx context.Context, order *domain.Order) error {
	return l.repo.CreateOrder(ctx, order)
}

func (l *Ledger) FindPendingByIdempotencyKey(ctx context.Context, userRef, key string) (*domain.Order, error) {
	return l.repo.FindPendingByIdempotencyKey(ctx, userRef, key)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

var (
	ErrOrderNotFound    = fmt.Errorf("order %w", domain.ErrNotFound)
	ErrDuplicateSession = errors.New("order for this checkout session already exists")
	// ErrStaleStatus means the order was no longer in the expected status.
	ErrStaleStatus = errors.New("order status changed concurrently")
)

type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	GetOrderBySession(ctx context.Context, sessionID string) (*domain.Order, error)
	FindPendingByIdempotencyKey(ctx context.Context, userRef, key string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userRef string) ([]*domain.Order, error)
	// TransitionStatus moves the order from one status to another and stores the
	// outbox event in the same write. It returns ErrStaleStatus when the order is
	// not in status from.
	TransitionStatus(ctx context.Context, id string, from, to domain.OrderStatus, event *OutboxEvent) error
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
	Close() error
}

package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	r "github.com/fjod/go_storefront/internal/orders/repository"
	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/fjod/go_storefront/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// StatusSource answers session status queries. It is the provider's getSessionStatus.
type StatusSource interface {
	GetSessionStatus(ctx context.Context, sessionID string) (*domain.ProviderStatus, error)
}

type Store interface {
	GetOrderBySession(ctx context.Context, sessionID string) (*domain.Order, error)
	TransitionStatus(ctx context.Context, id string, from, to domain.OrderStatus, event *r.OutboxEvent) error
}

type CartClearer interface {
	ClearIfSession(ctx context.Context, sessionID string) (bool, error)
}

// ReturnResult describes what the shopper sees after coming back from the provider.
type ReturnResult struct {
	// Order is nil when the return carried no session id.
	Order       *domain.Order
	CartCleared bool
	// Unconfirmed is set while the provider has not reported a final outcome.
	Unconfirmed bool
}

// Reconciler turns provider outcomes into order status transitions. Only pending
// orders move; reconciling a terminal order is a no-op.
type Reconciler struct {
	provider StatusSource
	store    Store
	cart     CartClearer
	metrics  *metrics.Metrics
	group    singleflight.Group
	now      func() time.Time
}

func NewReconciler(provider StatusSource, store Store, cart CartClearer, m *metrics.Metrics) *Reconciler {
	return &Reconciler{
		provider: provider,
		store:    store,
		cart:     cart,
		metrics:  m,
		now:      time.Now,
	}
}

// QueryStatus asks the provider for the session outcome. Anything other than paid,
// cancelled or failed is reported as ErrUnknownProviderOutcome.
func (rc *Reconciler) QueryStatus(ctx context.Context, sessionID string) (domain.Outcome, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrValidation)
	}

	st, err := rc.provider.GetSessionStatus(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch st.Outcome {
	case "paid":
		return domain.OutcomePaid{CustomerRef: st.CustomerRef, Details: st.Details}, nil
	case "cancelled":
		return domain.OutcomeCancelled{Details: st.Details}, nil
	case "failed":
		return domain.OutcomeFailed{Error: st.Details}, nil
	default:
		return nil, fmt.Errorf("%w: %q for session %s", domain.ErrUnknownProviderOutcome, st.Outcome, sessionID)
	}
}

// Reconcile brings the order of sessionID in line with the provider. Concurrent calls
// for one session share a single provider query. When the outcome is unknown the
// pending order is returned together with ErrUnknownProviderOutcome.
func (rc *Reconciler) Reconcile(ctx context.Context, sessionID string) (*domain.Order, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrValidation)
	}

	type result struct {
		order *domain.Order
		err   error
	}
	// the shared query outlives whichever caller started it
	shared := context.WithoutCancel(ctx)
	ch := rc.group.DoChan(sessionID, func() (any, error) {
		order, err := rc.reconcile(shared, sessionID)
		return result{order, err}, nil
	})
	select {
	case v := <-ch:
		res := v.Val.(result)
		return res.order, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (rc *Reconciler) reconcile(ctx context.Context, sessionID string) (*domain.Order, error) {
	log := logger.FromContext(ctx).With().Str("session_id", sessionID).Logger()

	order, err := rc.store.GetOrderBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order.Status.IsTerminal() {
		rc.metrics.ObserveReconcile("noop")
		return order, nil
	}

	outcome, err := rc.QueryStatus(ctx, sessionID)
	if errors.Is(err, domain.ErrUnknownProviderOutcome) {
		log.Info().Err(err).Msg("payment outcome not final yet")
		rc.metrics.ObserveReconcile("unknown")
		return order, err
	}
	if err != nil {
		rc.metrics.ObserveReconcile("error")
		return nil, err
	}

	var next domain.OrderStatus
	switch o := outcome.(type) {
	case domain.OutcomePaid:
		next = domain.OrderStatusPaid
		log.Info().Str("customer_ref", o.CustomerRef).Msg("payment confirmed")
	case domain.OutcomeCancelled:
		next = domain.OrderStatusCancelled
		log.Info().Str("details", o.Details).Msg("checkout cancelled")
	case domain.OutcomeFailed:
		next = domain.OrderStatusCancelled
		log.Warn().Str("error", o.Error).Msg("payment failed")
	default:
		return order, fmt.Errorf("%w: %T", domain.ErrUnknownProviderOutcome, outcome)
	}

	if !domain.CanTransitionTo(order.Status, next) {
		return order, nil
	}

	event, err := rc.statusEvent(order, next)
	if err != nil {
		return nil, err
	}
	err = rc.store.TransitionStatus(ctx, order.ID, order.Status, next, event)
	if errors.Is(err, r.ErrStaleStatus) {
		// another reconcile finished first
		rc.metrics.ObserveReconcile("noop")
		return rc.store.GetOrderBySession(ctx, sessionID)
	}
	if err != nil {
		rc.metrics.ObserveReconcile("error")
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order.Status = next
	order.UpdatedAt = rc.now().UTC()
	rc.metrics.ObserveReconcile(next.String())
	return order, nil
}

// FinalizeFromReturn handles the shopper's return from the provider. The return
// itself proves nothing: the order is only settled from the provider's answer, and
// the cart is cleared only once the order is paid. A missing session id is advisory.
func (rc *Reconciler) FinalizeFromReturn(ctx context.Context, sessionID string) (*ReturnResult, error) {
	if sessionID == "" {
		log := logger.FromContext(ctx)
		log.Info().Msg("return without session id")
		return &ReturnResult{Unconfirmed: true}, nil
	}

	order, err := rc.Reconcile(ctx, sessionID)
	if errors.Is(err, domain.ErrUnknownProviderOutcome) && order != nil {
		return &ReturnResult{Order: order, Unconfirmed: true}, nil
	}
	if err != nil {
		return nil, err
	}

	res := &ReturnResult{Order: order}
	if order.Status == domain.OrderStatusPaid {
		cleared, err := rc.cart.ClearIfSession(ctx, sessionID)
		if err != nil {
			log := logger.FromContext(ctx)
			log.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear cart after payment")
		}
		res.CartCleared = cleared
	}
	return res, nil
}

func (rc *Reconciler) statusEvent(order *domain.Order, next domain.OrderStatus) (*r.OutboxEvent, error) {
	payload, err := json.Marshal(domain.OrderEvent{
		EventType:          domain.OrderStatusChangedEvent,
		OrderID:            order.ID,
		UserRef:            order.UserRef,
		Status:             next,
		CheckoutSessionRef: order.CheckoutSessionRef,
		OccurredAt:         rc.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order event: %w", err)
	}
	return &r.OutboxEvent{
		AggregateID: order.ID,
		EventType:   domain.OrderStatusChangedEvent,
		Payload:     payload,
	}, nil
}

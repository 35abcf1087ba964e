package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/identity"
	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/fjod/go_storefront/pkg/metrics"
	"github.com/google/uuid"
)

type Cart interface {
	Lines() []domain.CartLine
	MarkCheckout(ctx context.Context, sessionID string) error
}

type PriceReader interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Provider creates hosted checkout sessions. It is called at most once per initiation.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, items []domain.LineItem, returns domain.ReturnTargets) (*domain.CheckoutSession, error)
}

type OrderRecorder interface {
	RecordOrder(ctx context.Context, order *domain.Order) error
	// FindPendingByIdempotencyKey returns domain.ErrNotFound when no pending order uses key.
	FindPendingByIdempotencyKey(ctx context.Context, userRef, key string) (*domain.Order, error)
}

// Navigator hands control to the provider's hosted page.
type Navigator interface {
	Navigate(redirectURL string)
}

type Request struct {
	Returns        domain.ReturnTargets
	IdempotencyKey string
}

type Result struct {
	Order   *domain.Order
	Session domain.CheckoutSession
	// Replayed is set when an earlier initiation with the same idempotency key was reused.
	Replayed bool
}

type Initiator struct {
	identity identity.Current
	cart     Cart
	prices   PriceReader
	provider Provider
	orders   OrderRecorder
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewInitiator(current identity.Current, cart Cart, prices PriceReader, provider Provider, orders OrderRecorder, m *metrics.Metrics) *Initiator {
	return &Initiator{
		identity: current,
		cart:     cart,
		prices:   prices,
		provider: provider,
		orders:   orders,
		metrics:  m,
		now:      time.Now,
	}
}

// CreateCheckoutSession turns the cart into a provider checkout session, records a
// pending order for it and navigates to the provider. The cart is never modified
// except for remembering the session it started.
func (i *Initiator) CreateCheckoutSession(ctx context.Context, req Request, nav Navigator) (*Result, error) {
	log := logger.FromContext(ctx)

	who, ok := i.identity(ctx)
	if !ok {
		i.metrics.ObserveCheckout("auth_required")
		return nil, fmt.Errorf("%w: sign in to check out", domain.ErrAuthRequired)
	}

	lines := i.cart.Lines()
	if len(lines) == 0 {
		i.metrics.ObserveCheckout("empty_cart")
		return nil, fmt.Errorf("%w: cart is empty, nothing to checkout", domain.ErrValidation)
	}

	if req.IdempotencyKey != "" {
		existing, err := i.orders.FindPendingByIdempotencyKey(ctx, who.UserID, req.IdempotencyKey)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to check idempotency: %w", err)
		}
		if existing != nil && existing.RedirectURL != "" {
			log.Info().
				Str("idempotency_key", req.IdempotencyKey).
				Str("order_id", existing.ID).
				Msg("duplicate checkout request, reusing session")
			i.metrics.ObserveCheckout("replayed")
			session := domain.CheckoutSession{SessionID: existing.CheckoutSessionRef, RedirectURL: existing.RedirectURL}
			nav.Navigate(session.RedirectURL)
			return &Result{Order: existing, Session: session, Replayed: true}, nil
		}
	}

	snapshot, err := BuildSnapshot(lines, i.currentPrices(ctx, lines), i.now().UTC())
	if err != nil {
		i.metrics.ObserveCheckout("invalid_cart")
		return nil, err
	}

	session, err := i.provider.CreateCheckoutSession(ctx, snapshot.Items, req.Returns)
	if err != nil {
		i.metrics.ObserveCheckout("provider_error")
		log.Error().Err(err).Msg("checkout session creation failed")
		return nil, err
	}
	if err := validateSession(session); err != nil {
		i.metrics.ObserveCheckout("invalid_response")
		log.Error().Err(err).Msg("unusable checkout session")
		return nil, err
	}

	now := i.now().UTC()
	order := &domain.Order{
		ID:                 uuid.NewString(),
		UserRef:            who.UserID,
		Status:             domain.OrderStatusPending,
		TotalAmountCents:   snapshot.TotalAmountCents,
		Currency:           snapshot.Currency,
		Items:              snapshot.Items,
		CheckoutSessionRef: session.SessionID,
		RedirectURL:        session.RedirectURL,
		IdempotencyKey:     req.IdempotencyKey,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := i.orders.RecordOrder(ctx, order); err != nil {
		i.metrics.ObserveCheckout("record_failed")
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	if err := i.cart.MarkCheckout(ctx, session.SessionID); err != nil {
		// the return path still confirms the payment, only the out-of-band clear is lost
		log.Warn().Err(err).Str("session_id", session.SessionID).Msg("failed to remember checkout session on cart")
	}

	log.Info().
		Str("order_id", order.ID).
		Str("session_id", session.SessionID).
		Int64("total_amount_cents", order.TotalAmountCents).
		Msg("checkout session created")
	i.metrics.ObserveCheckout("created")

	nav.Navigate(session.RedirectURL)
	return &Result{Order: order, Session: *session}, nil
}

// currentPrices reads each product's price from the catalog. Products the catalog
// cannot return keep the price captured when they were added.
func (i *Initiator) currentPrices(ctx context.Context, lines []domain.CartLine) map[string]int64 {
	prices := make(map[string]int64, len(lines))
	if i.prices == nil {
		return prices
	}
	log := logger.FromContext(ctx)
	for _, l := range lines {
		p, err := i.prices.GetProduct(ctx, l.ProductID)
		if err != nil {
			log.Warn().Err(err).Str("product_id", l.ProductID).Msg("price refresh failed, using cart price")
			continue
		}
		prices[l.ProductID] = p.PriceCents
	}
	return prices
}

func validateSession(s *domain.CheckoutSession) error {
	if s == nil || s.SessionID == "" {
		return fmt.Errorf("%w: missing session id", domain.ErrProviderResponseInvalid)
	}
	u, err := url.Parse(s.RedirectURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("%w: unusable redirect url %q", domain.ErrProviderResponseInvalid, s.RedirectURL)
	}
	return nil
}

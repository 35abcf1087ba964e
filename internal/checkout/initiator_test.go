package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var returns = domain.ReturnTargets{
	SuccessURL: "https://shop/checkout/success?session_id=" + domain.SessionIDPlaceholder,
	CancelURL:  "https://shop/checkout/cancel?session_id=" + domain.SessionIDPlaceholder,
}

type fixture struct {
	cart     *mockCart
	prices   *mockPrices
	provider *mockProvider
	orders   *mockOrders
	nav      *recordingNavigator
	init     *Initiator
}

func newFixture(lines ...domain.CartLine) *fixture {
	f := &fixture{
		cart:     &mockCart{lines: lines},
		prices:   &mockPrices{products: map[string]*domain.Product{}},
		provider: &mockProvider{session: &domain.CheckoutSession{SessionID: "s1", RedirectURL: "https://pay/s1"}},
		orders:   &mockOrders{byKey: map[string]*domain.Order{}},
		nav:      &recordingNavigator{},
	}
	f.init = NewInitiator(signedIn("u1"), f.cart, f.prices, f.provider, f.orders, nil)
	return f
}

func TestCreateCheckoutSession_Success(t *testing.T) {
	f := newFixture(line("P", "Screen", 2999, 2))

	res, err := f.init.CreateCheckoutSession(context.Background(), Request{Returns: returns}, f.nav)
	require.NoError(t, err)

	assert.Equal(t, 1, f.provider.calls)
	require.Len(t, f.provider.items, 1)
	assert.Equal(t, int64(2999), f.provider.items[0].UnitPriceCents)
	assert.Equal(t, int64(2), f.provider.items[0].Quantity)
	assert.Equal(t, "USD", f.provider.items[0].Currency)
	assert.Equal(t, returns, f.provider.returns)

	assert.Equal(t, int64(5998), res.Order.TotalAmountCents)
	assert.Equal(t, "USD", res.Order.Currency)
	assert.Equal(t, domain.OrderStatusPending, res.Order.Status)
	assert.Equal(t, "s1", res.Order.CheckoutSessionRef)
	assert.Equal(t, "u1", res.Order.UserRef)
	require.Len(t, f.orders.recorded, 1)

	assert.Equal(t, []string{"https://pay/s1"}, f.nav.targets)
	assert.Equal(t, []string{"s1"}, f.cart.marked)
	assert.Len(t, f.cart.lines, 1)
}

func TestCreateCheckoutSession_EmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.init.CreateCheckoutSession(context.Background(), Request{Returns: returns}, f.nav)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, f.provider.calls)
	assert.Empty(t, f.orders.recorded)
	assert.Empty(t, f.nav.targets)
}

func TestCreateCheckoutSession_AuthRequired(t *testing.T) {
	f := newFixture(line("P", "Screen", 2999, 1))
	f.init.identity = anonymous

	_, err := f.init.CreateCheckoutSession(context.Background(), Request{Returns: returns}, f.nav)

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Equal(t, 0, f.provider.calls)
	assert.Empty(t, f.nav.targets)
}

func TestCreateCheckoutSession_ProviderFailureNotRetried(t *testing.T) {
	f := newFixture(line("P", "Screen", 2999, 1))
	f.provider.err = fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, errProviderDown)

	_, err := f.init.CreateCheckoutSession(context.Background(), Request{Returns: returns}, f.nav)

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Equal(t, 1, f.provider.calls)
	assert.Empty(t, f.orders.recorded)
	assert.Empty(t, f.nav.targets)
	assert.Empty(t, f.cart.marked)
	assert.Len(t, f.cart.lines, 1)
}

func TestCreateCheckoutSession_InvalidProviderResponse(t *testing.T) {
	tests := []struct {
		name    string
		session *domain.CheckoutSession
	}{
		{"nil session", nil},
		{"missing url", &domain.CheckoutSession{SessionID: "s1"}},
		{"relative url", &domain.CheckoutSession{SessionID: "s1", RedirectURL: "/pay/s1"}},
		{"bad scheme", &domain.CheckoutSession{SessionID: "s1", RedirectURL: "javascript:alert(1)"}},
		{"missing session id", &domain.CheckoutSession{RedirectURL: "https://pay/s1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(line("P", "Screen", 2999, 1))
			f.provider.session = tt.session

			_, err := f.init.CreateCheckoutSession(context.Background(), Request{Returns: returns}, f.nav)

			assert.ErrorIs(t, err, domain.ErrProviderResponseInvalid)
			assert.Empty(t, f.nav.targets)
			assert.Empty(t, f.orders.recorded)
		})
	}
}

func TestCreateCheckoutSession_RecordFailureDoesNotNavigate(t *testing.T) {
	f := newFixture(line("P", "Screen", 2999, 1))
	f.orders.recordErr = errors.New("db down")

	_, err := f.init.CreateCheckoutSession(context.Background(), Request{Returns: returns}, f.nav)

	assert.ErrorContains(t, err, "failed to record order")
	assert.Empty(t, f.nav.targets)
	assert.Empty(t, f.cart.marked)
}

func TestCreateCheckoutSession_MarkFailureStillNavigates(t *testing.T) {
	f := newFixture(line("P", "Screen", 2999, 1))
	f.cart.markErr = errors.New("disk full")

	_, err := f.init.CreateCheckoutSession(context.Background(), Request{Returns: returns}, f.nav)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://pay/s1"}, f.nav.targets)
}

func TestCreateCheckoutSession_RefreshesPrices(t *testing.T) {
	f := newFixture(line("P", "Screen", 2999, 2), line("Q", "Fan", 1000, 1))
	f.prices.products["P"] = &domain.Product{ID: "P", Name: "Screen", PriceCents: 3499}

	res, err := f.init.CreateCheckoutSession(context.Background(), Request{Returns: returns}, f.nav)
	require.NoError(t, err)

	assert.Equal(t, int64(3499), f.provider.items[0].UnitPriceCents)
	assert.Equal(t, int64(1000), f.provider.items[1].UnitPriceCents)
	assert.Equal(t, int64(2*3499+1000), res.Order.TotalAmountCents)
}

func TestCreateCheckoutSession_IdempotencyKeyReplays(t *testing.T) {
	f := newFixture(line("P", "Screen", 2999, 1))
	f.orders.byKey["k1"] = &domain.Order{
		ID:                 "o1",
		Status:             domain.OrderStatusPending,
		CheckoutSessionRef: "s0",
		RedirectURL:        "https://pay/s0",
	}

	res, err := f.init.CreateCheckoutSession(context.Background(), Request{Returns: returns, IdempotencyKey: "k1"}, f.nav)
	require.NoError(t, err)

	assert.True(t, res.Replayed)
	assert.Equal(t, "o1", res.Order.ID)
	assert.Equal(t, 0, f.provider.calls)
	assert.Equal(t, []string{"https://pay/s0"}, f.nav.targets)
}

func TestCreateCheckoutSession_IdempotencyLookupError(t *testing.T) {
	f := newFixture(line("P", "Screen", 2999, 1))
	f.orders.findErr = errors.New("db down")

	_, err := f.init.CreateCheckoutSession(context.Background(), Request{Returns: returns, IdempotencyKey: "k1"}, f.nav)

	assert.ErrorContains(t, err, "failed to check idempotency")
	assert.Equal(t, 0, f.provider.calls)
}

func TestCreateCheckoutSession_NewKeyCreatesSession(t *testing.T) {
	f := newFixture(line("P", "Screen", 2999, 1))

	res, err := f.init.CreateCheckoutSession(context.Background(), Request{Returns: returns, IdempotencyKey: "fresh"}, f.nav)
	require.NoError(t, err)

	assert.False(t, res.Replayed)
	assert.Equal(t, "fresh", res.Order.IdempotencyKey)
	assert.Equal(t, 1, f.provider.calls)
}

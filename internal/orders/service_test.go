package orders

import (
	"context"
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/identity"
	r "github.com/fjod/go_storefront/internal/orders/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func as(userID string, admin bool) identity.Current {
	return func(context.Context) (identity.Identity, bool) {
		return identity.Identity{UserID: userID, Admin: admin}, true
	}
}

func seeded(t *testing.T) *r.MemoryRepository {
	repo := r.NewMemoryRepository()
	require.NoError(t, repo.CreateOrder(context.Background(), pendingOrder("s1")))
	return repo
}

func TestGetOrder_Owner(t *testing.T) {
	q := NewQueries(as("u1", false), seeded(t))

	order, err := q.GetOrder(context.Background(), "o-s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", order.CheckoutSessionRef)
}

func TestGetOrder_OtherShopperSeesNotFound(t *testing.T) {
	q := NewQueries(as("u2", false), seeded(t))

	_, err := q.GetOrder(context.Background(), "o-s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetOrder_Admin(t *testing.T) {
	q := NewQueries(as("root", true), seeded(t))

	_, err := q.GetOrder(context.Background(), "o-s1")
	assert.NoError(t, err)
}

func TestGetOrderBySession_Visibility(t *testing.T) {
	repo := seeded(t)

	order, err := NewQueries(as("u1", false), repo).GetOrderBySession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "o-s1", order.ID)

	_, err = NewQueries(as("u2", false), repo).GetOrderBySession(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = NewQueries(as("root", true), repo).GetOrderBySession(context.Background(), "s1")
	assert.NoError(t, err)

	_, err = NewQueries(as("u1", false), repo).GetOrderBySession(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueries_Anonymous(t *testing.T) {
	q := NewQueries(identity.FromContext, seeded(t))

	_, err := q.GetOrder(context.Background(), "o-s1")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	_, err = q.ListOrders(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	_, err = q.GetOrderBySession(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestListOrders(t *testing.T) {
	q := NewQueries(as("u1", false), seeded(t))

	orders, err := q.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestLedger_RecordsAndFindsByIdempotencyKey(t *testing.T) {
	repo := r.NewMemoryRepository()
	ledger := NewLedger(repo)
	order := pendingOrder("s7")
	order.IdempotencyKey = "key-1"

	require.NoError(t, ledger.RecordOrder(context.Background(), order))

	found, err := ledger.FindPendingByIdempotencyKey(context.Background(), order.UserRef, "key-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = ledger.FindPendingByIdempotencyKey(context.Background(), order.UserRef, "other")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

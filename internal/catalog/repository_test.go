package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(":memory:")
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations("./migrations"))
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestListProducts_SeededCatalog(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 5)
	assert.Equal(t, "prod-screen-13", products[0].ID)
	assert.Equal(t, int64(2999), products[0].PriceCents)
	assert.True(t, products[0].Active)
	assert.Equal(t, 2025, products[0].CreatedAt.Year())
}

func TestListProducts_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListProducts(ctx)
	assert.ErrorContains(t, err, "failed to query products")
}

func TestGetProduct(t *testing.T) {
	repo := setupTestDB(t)

	p, err := repo.GetProduct(context.Background(), "prod-fan")
	require.NoError(t, err)
	assert.Equal(t, "Cooling Fan", p.Name)
	assert.Equal(t, int64(1250), p.PriceCents)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateProduct(t *testing.T) {
	repo := setupTestDB(t)
	repo.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	created, err := repo.CreateProduct(ctx, &domain.Product{Name: "Hinge", PriceCents: 700})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)

	got, err := repo.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hinge", got.Name)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 6)
	assert.Equal(t, created.ID, products[5].ID)
}

func TestCreateProduct_Validation(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.CreateProduct(ctx, &domain.Product{Name: " ", PriceCents: 100})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = repo.CreateProduct(ctx, &domain.Product{Name: "Bad", PriceCents: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = repo.CreateProduct(ctx, &domain.Product{ID: "prod-fan", Name: "Dup", PriceCents: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateProduct(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	updated, err := repo.UpdateProduct(ctx, &domain.Product{ID: "prod-fan", Name: "Quiet Fan", Description: "new", PriceCents: 1400})
	require.NoError(t, err)
	assert.Equal(t, "Quiet Fan", updated.Name)
	assert.Equal(t, int64(1400), updated.PriceCents)

	_, err = repo.UpdateProduct(ctx, &domain.Product{ID: "missing", Name: "x", PriceCents: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArchiveProduct(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.ArchiveProduct(ctx, "prod-fan"))

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 4)

	p, err := repo.GetProduct(ctx, "prod-fan")
	require.NoError(t, err)
	assert.False(t, p.Active)

	assert.ErrorIs(t, repo.ArchiveProduct(ctx, "missing"), domain.ErrNotFound)
}

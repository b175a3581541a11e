package catalog_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hortsatta/dot-games-sub000/internal/catalog"
	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *catalog.Repository {
	repo, err := catalog.NewRepository(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.RunMigrations("./migrations"))
	return repo
}

func TestListProducts_OnlyActive(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)

	assert.Len(t, products, 5)
	for _, p := range products {
		assert.True(t, p.Active)
		assert.NotEqual(t, int64(6), p.ID)
	}
}

func TestGetProduct_ReturnsProduct(t *testing.T) {
	repo := setupTestDB(t)

	p, err := repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Elden Ring", p.Name)
	assert.True(t, decimal.RequireFromString("59.99").Equal(p.BasePrice))
	assert.Equal(t, 20, p.DiscountPercent)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestGetProduct_IncorrectId(t *testing.T) {
	repo := setupTestDB(t)

	p, err := repo.GetProduct(context.Background(), -1)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetProduct_ReturnsInactive(t *testing.T) {
	repo := setupTestDB(t)

	p, err := repo.GetProduct(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, p.Active)
}

func TestGetProducts(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	all, err := repo.GetProducts(ctx, []int64{1, 6, 99}, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.GetProducts(ctx, []int64{1, 6, 99}, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Contains(t, active, int64(1))

	none, err := repo.GetProducts(ctx, nil, true)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetProducts_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetProducts(ctx, []int64{1}, true)
	assert.ErrorIs(t, err, context.Canceled)
}

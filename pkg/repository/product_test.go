package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/record"
)

func seedCatalog(t *testing.T) *ProductRepository {
	t.Helper()
	store, db := newTestDB(t)
	store.Seed(models.ProductTable,
		record.Record{"name_c": "Trail Runner", "category_c": "Shoes", "price_c": 89.5, "featured_c": true, "images_c": "a.jpg\n\nb.jpg\n"},
		record.Record{"name_c": "Rain Jacket", "category_c": "Outerwear", "description_c": "Runs dry in a storm", "trending_c": true},
		record.Record{"name_c": "Wool Socks", "category_c": "Accessories", "in_stock_c": "true", "stock_count_c": "12"},
	)
	repo, err := NewProductRepository(db)
	require.NoError(t, err)
	return repo
}

func productNames(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestProductRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repo := seedCatalog(t)

	tests := []struct {
		name string
		run  func() ([]models.Product, error)
		want []string
	}{
		{"list", func() ([]models.Product, error) { return repo.List(ctx) }, []string{"Trail Runner", "Rain Jacket", "Wool Socks"}},
		{"category", func() ([]models.Product, error) { return repo.ByCategory(ctx, "Shoes") }, []string{"Trail Runner"}},
		{"featured", func() ([]models.Product, error) { return repo.Featured(ctx) }, []string{"Trail Runner"}},
		{"trending", func() ([]models.Product, error) { return repo.Trending(ctx) }, []string{"Rain Jacket"}},
		{"search spans fields", func() ([]models.Product, error) { return repo.Search(ctx, "run") }, []string{"Trail Runner", "Rain Jacket"}},
		{"search category", func() ([]models.Product, error) { return repo.Search(ctx, "access") }, []string{"Wool Socks"}},
		{"search empty", func() ([]models.Product, error) { return repo.Search(ctx, "") }, []string{"Trail Runner", "Rain Jacket", "Wool Socks"}},
		{"no match", func() ([]models.Product, error) { return repo.Search(ctx, "zzz") }, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			require.NoError(t, err)
			assert.Equal(t, tt.want, productNames(got))
		})
	}
}

func TestProductRepository_Get(t *testing.T) {
	repo := seedCatalog(t)

	p, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Trail Runner", p.Name)
	assert.Equal(t, 89.5, p.Price)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	assert.Equal(t, []string{}, p.Sizes)

	socks, err := repo.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, socks.InStock)
	assert.Equal(t, 12, socks.StockCount)
}

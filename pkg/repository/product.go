package repository

import (
	"context"

	"github.com/marshallshelly/pebble-records/pkg/builder"
	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/runtime"
)

// ProductRepository reads the catalog. Products are never written through it.
type ProductRepository struct {
	repo *Repository[models.Product]
}

// NewProductRepository creates a ProductRepository.
func NewProductRepository(db *runtime.DB) (*ProductRepository, error) {
	repo, err := New[models.Product](db)
	if err != nil {
		return nil, err
	}
	return &ProductRepository{repo: repo}, nil
}

// Get loads one product.
func (r *ProductRepository) Get(ctx context.Context, id int64) (models.Product, error) {
	return r.repo.Get(ctx, id)
}

// List returns the whole catalog.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.repo.List(ctx, nil)
}

// ByCategory returns the products in one category.
func (r *ProductRepository) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return r.repo.List(ctx, r.repo.Select().Where(builder.Eq("category_c", category)))
}

// Featured returns the products flagged as featured.
func (r *ProductRepository) Featured(ctx context.Context) ([]models.Product, error) {
	return r.repo.List(ctx, r.repo.Select().Where(builder.Eq("featured_c", true)))
}

// Trending returns the products flagged as trending.
func (r *ProductRepository) Trending(ctx context.Context) ([]models.Product, error) {
	return r.repo.List(ctx, r.repo.Select().Where(builder.Eq("trending_c", true)))
}

// Search matches the query text against name, category or description.
func (r *ProductRepository) Search(ctx context.Context, text string) ([]models.Product, error) {
	if text == "" {
		return r.List(ctx)
	}
	return r.repo.List(ctx, r.repo.Select().AnyOf(
		builder.Contains("name_c", text),
		builder.Contains("category_c", text),
		builder.Contains("description_c", text),
	))
}

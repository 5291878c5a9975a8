package repository

import (
	"context"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// CatalogRepository reads and maintains products and categories.
type CatalogRepository interface {
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	RelatedProducts(ctx context.Context, product *model.Product, limit int) ([]model.Product, error)
	RecommendedProducts(ctx context.Context, limit int) ([]model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)
}

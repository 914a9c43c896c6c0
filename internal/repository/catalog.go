package repository

import (
	"context"

	"storefront/internal/model"
)

// ProductFilter narrows a product listing. Empty fields do not filter.
type ProductFilter struct {
	CategoryID   string
	Search       string
	ActiveOnly   bool
	FeaturedOnly bool
	Page         PageQuery
}

// CatalogRepository covers products, categories and banners.
type CatalogRepository interface {
	ListProducts(ctx context.Context, f ProductFilter) (*PageResult[model.Product], error)
	FindProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindProductByID(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	// UpsertProduct inserts or updates by slug.
	UpsertProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AppendProductImage(ctx context.Context, id, url string) (*model.Product, error)
	// DecrementStock fails with sql.ErrNoRows when fewer than qty units remain.
	DecrementStock(ctx context.Context, productID string, qty int) error
	CountProducts(ctx context.Context) (int, error)

	ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error)
	UpsertCategory(ctx context.Context, c *model.Category) (*model.Category, error)
	ListBanners(ctx context.Context, activeOnly bool) ([]model.Banner, error)
	UpsertBanner(ctx context.Context, b *model.Banner) (*model.Banner, error)
}

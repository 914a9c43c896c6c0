package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storefront/internal/model"
	"storefront/internal/repository"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) product(args mock.Arguments) (*model.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogRepository) ListProducts(ctx context.Context, f repository.ProductFilter) (*repository.PageResult[model.Product], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Product]), args.Error(1)
}

func (m *MockCatalogRepository) FindProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return m.product(m.Called(ctx, slug))
}

func (m *MockCatalogRepository) FindProductByID(ctx context.Context, id string) (*model.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockCatalogRepository) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	return m.product(m.Called(ctx, p))
}

func (m *MockCatalogRepository) UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	return m.product(m.Called(ctx, p))
}

func (m *MockCatalogRepository) UpsertProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	return m.product(m.Called(ctx, p))
}

func (m *MockCatalogRepository) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogRepository) AppendProductImage(ctx context.Context, id, url string) (*model.Product, error) {
	return m.product(m.Called(ctx, id, url))
}

func (m *MockCatalogRepository) DecrementStock(ctx context.Context, productID string, qty int) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func (m *MockCatalogRepository) CountProducts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCatalogRepository) UpsertCategory(ctx context.Context, c *model.Category) (*model.Category, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCatalogRepository) ListBanners(ctx context.Context, activeOnly bool) ([]model.Banner, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Banner), args.Error(1)
}

func (m *MockCatalogRepository) UpsertBanner(ctx context.Context, b *model.Banner) (*model.Banner, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Banner), args.Error(1)
}

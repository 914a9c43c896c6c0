package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storefront/internal/repository"
)

// MockTransactionManager runs fn against Factory unless the expectation returns an error.
type MockTransactionManager struct {
	mock.Mock
	Factory repository.RepositoryFactory
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repos repository.RepositoryFactory) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Factory)
}

// MockRepositoryFactory hands out the configured mocks.
type MockRepositoryFactory struct {
	CatalogRepo *MockCatalogRepository
	CartRepo    *MockCartRepository
	AddressRepo *MockAddressRepository
	CouponRepo  *MockCouponRepository
	OrderRepo   *MockOrderRepository
	UserRepo    *MockUserRepository
	RoleRepo    *MockRoleRepository
}

// NewMockRepositoryFactory returns a factory with every repository mock allocated.
func NewMockRepositoryFactory() *MockRepositoryFactory {
	return &MockRepositoryFactory{
		CatalogRepo: new(MockCatalogRepository),
		CartRepo:    new(MockCartRepository),
		AddressRepo: new(MockAddressRepository),
		CouponRepo:  new(MockCouponRepository),
		OrderRepo:   new(MockOrderRepository),
		UserRepo:    new(MockUserRepository),
		RoleRepo:    new(MockRoleRepository),
	}
}

func (f *MockRepositoryFactory) Catalog() repository.CatalogRepository   { return f.CatalogRepo }
func (f *MockRepositoryFactory) Cart() repository.CartRepository         { return f.CartRepo }
func (f *MockRepositoryFactory) Addresses() repository.AddressRepository { return f.AddressRepo }
func (f *MockRepositoryFactory) Coupons() repository.CouponRepository    { return f.CouponRepo }
func (f *MockRepositoryFactory) Orders() repository.OrderRepository      { return f.OrderRepo }
func (f *MockRepositoryFactory) Users() repository.UserRepository        { return f.UserRepo }
func (f *MockRepositoryFactory) Roles() repository.RoleRepository        { return f.RoleRepo }

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storefront/internal/model"
	"storefront/internal/service"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) line(args mock.Arguments) (*model.CartLine, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartService) View(ctx context.Context, userID string) (*service.CartView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartView), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, userID, productID string) (*model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockCartService) Increment(ctx context.Context, userID, itemID string) (*model.CartLine, error) {
	return m.line(m.Called(ctx, userID, itemID))
}

func (m *MockCartService) Decrement(ctx context.Context, userID, itemID string) (*model.CartLine, error) {
	return m.line(m.Called(ctx, userID, itemID))
}

func (m *MockCartService) SetQuantity(ctx context.Context, userID, itemID string, qty int) (*model.CartLine, error) {
	return m.line(m.Called(ctx, userID, itemID, qty))
}

func (m *MockCartService) Remove(ctx context.Context, userID, itemID string) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *MockCartService) Count(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockWishlistService struct {
	mock.Mock
}

func (m *MockWishlistService) View(ctx context.Context, userID string) (*service.WishlistView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WishlistView), args.Error(1)
}

func (m *MockWishlistService) Add(ctx context.Context, userID, productID string) (*model.WishlistItem, bool, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.WishlistItem), args.Bool(1), args.Error(2)
}

func (m *MockWishlistService) Remove(ctx context.Context, userID, itemID string) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *MockWishlistService) MoveToCart(ctx context.Context, userID, itemID string) (*model.CartItem, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockWishlistService) Count(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

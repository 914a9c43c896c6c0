package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/model"
)

// OrderStats backs the admin dashboard.
type OrderStats struct {
	TotalOrders  int
	TotalRevenue decimal.Decimal
}

// OrderRepository persists orders and their items.
type OrderRepository interface {
	// Create inserts the order; the order number is generated by the database.
	Create(ctx context.Context, o *model.Order) (*model.Order, error)
	AddItems(ctx context.Context, orderID string, items []model.OrderItem) ([]model.OrderItem, error)
	FindByIdempotencyKey(ctx context.Context, userID, key string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	// FindByID loads the order with its items, scoped to userID.
	FindByID(ctx context.Context, userID, id string) (*model.Order, error)
	Stats(ctx context.Context) (OrderStats, error)
}

// CouponRepository reads and consumes coupons.
type CouponRepository interface {
	// LockByCode reads an active-or-not coupon by code with FOR UPDATE.
	LockByCode(ctx context.Context, code string) (*model.Coupon, error)
	IncrementUsage(ctx context.Context, id string) error
	Upsert(ctx context.Context, c *model.Coupon) (*model.Coupon, error)
}

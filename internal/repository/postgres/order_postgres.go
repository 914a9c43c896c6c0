package postgres

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// OrderPostgres is a PostgreSQL implementation of repository.OrderRepository.
type OrderPostgres struct {
	db DBTX
}

// NewOrderPostgres creates a new OrderPostgres repository.
func NewOrderPostgres(db DBTX) *OrderPostgres {
	return &OrderPostgres{db: db}
}

var _ repository.OrderRepository = (*OrderPostgres)(nil)

const orderColumns = `id, user_id, order_number, status, payment_status, payment_method, subtotal,
	discount_amount, total_amount, coupon_id, shipping_address, idempotency_key, created_at, updated_at`

func scanOrder(s scanner, o *model.Order) error {
	return s.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderNumber,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentMethod,
		&o.Subtotal,
		&o.DiscountAmount,
		&o.TotalAmount,
		&o.CouponID,
		&o.ShippingAddress,
		&o.IdempotencyKey,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// Create inserts an order. order_number is filled by generate_order_number().
func (r *OrderPostgres) Create(ctx context.Context, o *model.Order) (*model.Order, error) {
	const q = `
		INSERT INTO orders (user_id, status, payment_status, payment_method, subtotal,
			discount_amount, total_amount, coupon_id, shipping_address, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + orderColumns
	var out model.Order
	row := r.db.QueryRowContext(ctx, q,
		o.UserID,
		o.Status,
		o.PaymentStatus,
		o.PaymentMethod,
		o.Subtotal,
		o.DiscountAmount,
		o.TotalAmount,
		o.CouponID,
		o.ShippingAddress,
		o.IdempotencyKey,
	)
	if err := scanOrder(row, &out); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return &out, nil
}

const orderItemColumns = `id, order_id, product_id, product_name, product_price, quantity, subtotal, created_at`

func scanOrderItem(s scanner, it *model.OrderItem) error {
	return s.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductPrice, &it.Quantity, &it.Subtotal, &it.CreatedAt)
}

// AddItems inserts the order's line items in the given order.
func (r *OrderPostgres) AddItems(ctx context.Context, orderID string, items []model.OrderItem) ([]model.OrderItem, error) {
	const q = `
		INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + orderItemColumns
	out := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		var stored model.OrderItem
		row := r.db.QueryRowContext(ctx, q, orderID, it.ProductID, it.ProductName, it.ProductPrice, it.Quantity, it.Subtotal)
		if err := scanOrderItem(row, &stored); err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

// FindByIdempotencyKey fetches the order a user placed with key, including items.
func (r *OrderPostgres) FindByIdempotencyKey(ctx context.Context, userID, key string) (*model.Order, error) {
	var o model.Order
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND idempotency_key = $2`, userID, key)
	if err := scanOrder(row, &o); err != nil {
		return nil, err
	}
	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// ListByUser returns the user's orders newest first, without items.
func (r *OrderPostgres) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// FindByID loads one of the user's orders with its items.
func (r *OrderPostgres) FindByID(ctx context.Context, userID, id string) (*model.Order, error) {
	var o model.Order
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, id, userID)
	if err := scanOrder(row, &o); err != nil {
		return nil, err
	}
	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderPostgres) listItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_id = $1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := scanOrderItem(rows, &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Stats returns the order count and the sum of order totals.
func (r *OrderPostgres) Stats(ctx context.Context) (repository.OrderStats, error) {
	var s repository.OrderStats
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders`).
		Scan(&s.TotalOrders, &s.TotalRevenue)
	return s, err
}

// CouponPostgres is a PostgreSQL implementation of repository.CouponRepository.
type CouponPostgres struct {
	db DBTX
}

// NewCouponPostgres creates a new CouponPostgres repository.
func NewCouponPostgres(db DBTX) *CouponPostgres {
	return &CouponPostgres{db: db}
}

var _ repository.CouponRepository = (*CouponPostgres)(nil)

const couponColumns = `id, code, discount_type, discount_value, min_order_amount, max_discount_amount,
	usage_limit, used_count, is_active, valid_from, valid_until, created_at, updated_at`

func scanCoupon(s scanner, c *model.Coupon) error {
	return s.Scan(&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MinOrderAmount, &c.MaxDiscountAmount,
		&c.UsageLimit, &c.UsedCount, &c.IsActive, &c.ValidFrom, &c.ValidUntil, &c.CreatedAt, &c.UpdatedAt)
}

// LockByCode reads a coupon by code, ignoring case, and locks it until the transaction ends.
// Codes are stored uppercase.
func (r *CouponPostgres) LockByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var c model.Coupon
	row := r.db.QueryRowContext(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = upper($1) FOR UPDATE`, code)
	if err := scanCoupon(row, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// IncrementUsage bumps used_count by one.
func (r *CouponPostgres) IncrementUsage(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE coupons SET used_count = used_count + 1, updated_at = now() WHERE id = $1`, id)
	return err
}

// Upsert inserts a coupon or updates the one with the same code. The code is
// uppercased and used_count is preserved.
func (r *CouponPostgres) Upsert(ctx context.Context, c *model.Coupon) (*model.Coupon, error) {
	const q = `
		INSERT INTO coupons (code, discount_type, discount_value, min_order_amount, max_discount_amount,
			usage_limit, is_active, valid_from, valid_until)
		VALUES (upper($1), $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code) DO UPDATE SET
			discount_type = EXCLUDED.discount_type, discount_value = EXCLUDED.discount_value,
			min_order_amount = EXCLUDED.min_order_amount, max_discount_amount = EXCLUDED.max_discount_amount,
			usage_limit = EXCLUDED.usage_limit, is_active = EXCLUDED.is_active,
			valid_from = EXCLUDED.valid_from, valid_until = EXCLUDED.valid_until, updated_at = now()
		RETURNING ` + couponColumns
	var out model.Coupon
	row := r.db.QueryRowContext(ctx, q, c.Code, c.DiscountType, c.DiscountValue, c.MinOrderAmount,
		c.MaxDiscountAmount, c.UsageLimit, c.IsActive, c.ValidFrom, c.ValidUntil)
	if err := scanCoupon(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

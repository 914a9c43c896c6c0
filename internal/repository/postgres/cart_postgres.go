package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// CartPostgres is a PostgreSQL implementation of repository.CartRepository.
type CartPostgres struct {
	db DBTX
}

// NewCartPostgres creates a new CartPostgres repository.
func NewCartPostgres(db DBTX) *CartPostgres {
	return &CartPostgres{db: db}
}

var _ repository.CartRepository = (*CartPostgres)(nil)

const cartItemColumns = `id, user_id, product_id, quantity, created_at, updated_at`

const cartLineSelect = `
	SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at, ` + productColumns + `
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id`

func scanCartItem(s scanner, it *model.CartItem) error {
	return s.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
}

func scanCartLine(s scanner, l *model.CartLine) error {
	p := &l.Product
	return s.Scan(
		&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt,
		&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.DiscountPercent,
		&p.Images, &p.StockQuantity, &p.SKU, &p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *CartPostgres) listLines(ctx context.Context, q string, userID string) ([]model.CartLine, error) {
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]model.CartLine, 0)
	for rows.Next() {
		var l model.CartLine
		if err := scanCartLine(rows, &l); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListLines returns the user's cart lines, oldest first.
func (r *CartPostgres) ListLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	return r.listLines(ctx, cartLineSelect+` WHERE ci.user_id = $1 ORDER BY ci.created_at, ci.id`, userID)
}

// LockLines returns the user's cart lines with cart rows and products locked until the transaction ends.
func (r *CartPostgres) LockLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	return r.listLines(ctx, cartLineSelect+` WHERE ci.user_id = $1 ORDER BY ci.created_at, ci.id FOR UPDATE OF ci, p`, userID)
}

// FindLine fetches one cart line owned by userID.
func (r *CartPostgres) FindLine(ctx context.Context, userID, itemID string) (*model.CartLine, error) {
	var l model.CartLine
	row := r.db.QueryRowContext(ctx, cartLineSelect+` WHERE ci.id = $1 AND ci.user_id = $2`, itemID, userID)
	if err := scanCartLine(row, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// AddOrIncrement merges an add into the user's existing row for the product.
func (r *CartPostgres) AddOrIncrement(ctx context.Context, userID, productID string) (*model.CartItem, error) {
	const q = `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, product_id) DO UPDATE
			SET quantity = cart_items.quantity + 1, updated_at = now()
			WHERE cart_items.quantity < (SELECT stock_quantity FROM products WHERE id = EXCLUDED.product_id)
		RETURNING ` + cartItemColumns
	var it model.CartItem
	if err := scanCartItem(r.db.QueryRowContext(ctx, q, userID, productID), &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// SetQuantity overwrites the quantity of a line owned by userID.
func (r *CartPostgres) SetQuantity(ctx context.Context, userID, itemID string, qty int) (*model.CartItem, error) {
	const q = `
		UPDATE cart_items SET quantity = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + cartItemColumns
	var it model.CartItem
	if err := scanCartItem(r.db.QueryRowContext(ctx, q, itemID, userID, qty), &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Remove deletes a line owned by userID.
func (r *CartPostgres) Remove(ctx context.Context, userID, itemID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Clear deletes every line of the user's cart.
func (r *CartPostgres) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

// Count sums the quantities in the user's cart.
func (r *CartPostgres) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// WishlistPostgres is a PostgreSQL implementation of repository.WishlistRepository.
type WishlistPostgres struct {
	db DBTX
}

// NewWishlistPostgres creates a new WishlistPostgres repository.
func NewWishlistPostgres(db DBTX) *WishlistPostgres {
	return &WishlistPostgres{db: db}
}

var _ repository.WishlistRepository = (*WishlistPostgres)(nil)

const wishlistColumns = `id, user_id, product_id, created_at`

// ListLines returns the wishlist joined with products, newest first.
func (r *WishlistPostgres) ListLines(ctx context.Context, userID string) ([]model.WishlistLine, error) {
	const q = `
		SELECT w.id, w.user_id, w.product_id, w.created_at, ` + productColumns + `
		FROM wishlist w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC, w.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]model.WishlistLine, 0)
	for rows.Next() {
		var l model.WishlistLine
		p := &l.Product
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.ProductID, &l.CreatedAt,
			&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.DiscountPercent,
			&p.Images, &p.StockQuantity, &p.SKU, &p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// FindItem fetches a wishlist row owned by userID.
func (r *WishlistPostgres) FindItem(ctx context.Context, userID, itemID string) (*model.WishlistItem, error) {
	var it model.WishlistItem
	err := r.db.QueryRowContext(ctx, `SELECT `+wishlistColumns+` FROM wishlist WHERE id = $1 AND user_id = $2`, itemID, userID).
		Scan(&it.ID, &it.UserID, &it.ProductID, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Add inserts the product unless it is already on the list, in which case the existing row is returned.
func (r *WishlistPostgres) Add(ctx context.Context, userID, productID string) (*model.WishlistItem, bool, error) {
	const q = `
		WITH ins AS (
			INSERT INTO wishlist (user_id, product_id) VALUES ($1, $2)
			ON CONFLICT (user_id, product_id) DO NOTHING
			RETURNING ` + wishlistColumns + `
		)
		SELECT ` + wishlistColumns + `, true FROM ins
		UNION ALL
		SELECT ` + wishlistColumns + `, false FROM wishlist
		WHERE user_id = $1 AND product_id = $2 AND NOT EXISTS (SELECT 1 FROM ins)`
	var (
		it      model.WishlistItem
		created bool
	)
	err := r.db.QueryRowContext(ctx, q, userID, productID).
		Scan(&it.ID, &it.UserID, &it.ProductID, &it.CreatedAt, &created)
	if errors.Is(err, sql.ErrNoRows) {
		// A concurrent insert committed after this statement took its snapshot;
		// a fresh statement sees that row.
		err = r.db.QueryRowContext(ctx,
			`SELECT `+wishlistColumns+` FROM wishlist WHERE user_id = $1 AND product_id = $2`, userID, productID).
			Scan(&it.ID, &it.UserID, &it.ProductID, &it.CreatedAt)
		created = false
	}
	if err != nil {
		return nil, false, err
	}
	return &it, created, nil
}

// Remove deletes a wishlist row owned by userID.
func (r *WishlistPostgres) Remove(ctx context.Context, userID, itemID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wishlist WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Count returns the number of wishlist rows.
func (r *WishlistPostgres) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wishlist WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// AddressPostgres is a PostgreSQL implementation of repository.AddressRepository.
type AddressPostgres struct {
	db DBTX
}

// NewAddressPostgres creates a new AddressPostgres repository.
func NewAddressPostgres(db DBTX) *AddressPostgres {
	return &AddressPostgres{db: db}
}

var _ repository.AddressRepository = (*AddressPostgres)(nil)

const addressColumns = `id, user_id, full_name, phone, address_line1, address_line2, city, state, pincode,
	is_default, created_at, updated_at`

func scanAddress(s scanner, a *model.Address) error {
	return s.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.AddressLine1, &a.AddressLine2,
		&a.City, &a.State, &a.Pincode, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
}

// List returns the user's addresses, default first.
func (r *AddressPostgres) List(ctx context.Context, userID string) ([]model.Address, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Address, 0)
	for rows.Next() {
		var a model.Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// Find fetches an address owned by userID.
func (r *AddressPostgres) Find(ctx context.Context, userID, id string) (*model.Address, error) {
	var a model.Address
	row := r.db.QueryRowContext(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err := scanAddress(row, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an address; it becomes the default when the user has no other address.
func (r *AddressPostgres) Create(ctx context.Context, a *model.Address) (*model.Address, error) {
	const q = `
		INSERT INTO addresses (user_id, full_name, phone, address_line1, address_line2, city, state, pincode, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOT EXISTS (SELECT 1 FROM addresses WHERE user_id = $1))
		RETURNING ` + addressColumns
	var out model.Address
	row := r.db.QueryRowContext(ctx, q,
		a.UserID, a.FullName, a.Phone, a.AddressLine1, a.AddressLine2, a.City, a.State, a.Pincode)
	if err := scanAddress(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

package repository

import (
	"context"

	"storefront/internal/model"
)

// CartRepository persists cart_items. Every method is scoped to the owning user.
type CartRepository interface {
	// ListLines returns the cart joined with products, oldest first.
	ListLines(ctx context.Context, userID string) ([]model.CartLine, error)
	// LockLines is ListLines with the cart rows and their products locked FOR UPDATE.
	LockLines(ctx context.Context, userID string) ([]model.CartLine, error)
	FindLine(ctx context.Context, userID, itemID string) (*model.CartLine, error)
	// AddOrIncrement inserts the product with quantity 1 or bumps an existing row by one.
	// It returns sql.ErrNoRows when the existing quantity already reached stock.
	AddOrIncrement(ctx context.Context, userID, productID string) (*model.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID string, qty int) (*model.CartItem, error)
	// Remove reports whether a row was deleted.
	Remove(ctx context.Context, userID, itemID string) (bool, error)
	Clear(ctx context.Context, userID string) error
	// Count sums quantities.
	Count(ctx context.Context, userID string) (int, error)
}

// WishlistRepository persists wishlist rows.
type WishlistRepository interface {
	ListLines(ctx context.Context, userID string) ([]model.WishlistLine, error)
	FindItem(ctx context.Context, userID, itemID string) (*model.WishlistItem, error)
	// Add returns the stored row and whether this call created it.
	Add(ctx context.Context, userID, productID string) (*model.WishlistItem, bool, error)
	Remove(ctx context.Context, userID, itemID string) (bool, error)
	Count(ctx context.Context, userID string) (int, error)
}

// AddressRepository persists delivery addresses.
type AddressRepository interface {
	// List orders default first, then by creation.
	List(ctx context.Context, userID string) ([]model.Address, error)
	Find(ctx context.Context, userID, id string) (*model.Address, error)
	// Create marks the address as default when the user has none yet.
	Create(ctx context.Context, a *model.Address) (*model.Address, error)
}

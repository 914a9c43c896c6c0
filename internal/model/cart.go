package model

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/pricing"
)

// CartItem is one row of cart_items.
type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine is a cart row joined with its product.
type CartLine struct {
	CartItem
	Product   Product         `json:"product"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// UnitPrice implements pricing.Line.
func (l CartLine) UnitPrice() decimal.Decimal { return l.Product.Price }

// DiscountPercent implements pricing.Line.
func (l CartLine) DiscountPercent() int { return l.Product.DiscountPercent }

// Qty implements pricing.Line.
func (l CartLine) Qty() int { return l.Quantity }

// ApplyPricing fills the product's effective price and the line total.
func (l *CartLine) ApplyPricing() {
	l.Product.ApplyPricing()
	l.LineTotal = pricing.LineTotal(l.Product.Price, l.Product.DiscountPercent, l.Quantity)
}

// CanIncrement reports whether one more unit fits under the stock snapshot.
func (l CartLine) CanIncrement() bool {
	return l.Quantity < l.Product.StockQuantity
}

// CanDecrement reports whether the quantity can drop without reaching zero.
func (l CartLine) CanDecrement() bool {
	return l.Quantity > 1
}

// WishlistItem is one row of wishlist.
type WishlistItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// WishlistLine is a wishlist row joined with its product.
type WishlistLine struct {
	WishlistItem
	Product Product `json:"product"`
}

package service

import "github.com/pkg/errors"

// Errors returned by the services. Their messages are shown to shoppers as-is.
var (
	ErrProductNotFound      = errors.New("Product not found")
	ErrOutOfStock           = errors.New("This product is currently unavailable")
	ErrStockLimit           = errors.New("No more stock available for this product")
	ErrCartItemNotFound     = errors.New("Cart item not found")
	ErrWishlistItemNotFound = errors.New("Wishlist item not found")
	ErrCartEmpty            = errors.New("Cart is empty: Add items to cart before checkout")
	ErrAddressRequired      = errors.New("Please select a delivery address")
	ErrAddressNotFound      = errors.New("Address not found")
	ErrInsufficientStock    = errors.New("Some items in your cart are no longer available in the requested quantity")
	ErrInvalidCoupon        = errors.New("Coupon is invalid or expired")
	ErrCouponMinimum        = errors.New("Order does not meet the coupon minimum amount")
	ErrOrderNotFound        = errors.New("Order not found")
	ErrEmailTaken           = errors.New("An account with this email already exists")
	ErrInvalidCredentials   = errors.New("Invalid email or password")
	ErrUnauthenticated      = errors.New("Please sign in to continue")
	ErrUserNotFound         = errors.New("User not found")
	ErrUnsupportedMedia     = errors.New("Only image uploads are allowed")
	ErrSlugTaken            = errors.New("A product with this slug already exists")
	ErrPageNotFound         = errors.New("Page not found")
	ErrReaderNil            = errors.New("reader is nil")
	ErrIDRequired           = errors.New("id is required")
)

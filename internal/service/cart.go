package service

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"
)

// CartView is the priced cart with its order summary.
type CartView struct {
	Items     []model.CartLine `json:"items"`
	ItemCount int              `json:"item_count"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Shipping  decimal.Decimal  `json:"shipping"`
	Total     decimal.Decimal  `json:"total"`
}

// Empty reports whether the cart has no lines.
func (v *CartView) Empty() bool { return len(v.Items) == 0 }

// newCartView prices lines in place and totals them. Shipping is free.
func newCartView(lines []model.CartLine) *CartView {
	if lines == nil {
		lines = make([]model.CartLine, 0)
	}
	count := 0
	for i := range lines {
		lines[i].ApplyPricing()
		count += lines[i].Quantity
	}
	subtotal := pricing.Subtotal(lines)
	return &CartView{
		Items:     lines,
		ItemCount: count,
		Subtotal:  subtotal,
		Shipping:  decimal.Zero,
		Total:     subtotal,
	}
}

// CartService manages a shopper's cart.
type CartService interface {
	View(ctx context.Context, userID string) (*CartView, error)
	// Add puts one unit of the product in the cart, merging into an existing line.
	Add(ctx context.Context, userID, productID string) (*model.CartItem, error)
	Increment(ctx context.Context, userID, itemID string) (*model.CartLine, error)
	// Decrement at quantity 1 returns the line unchanged.
	Decrement(ctx context.Context, userID, itemID string) (*model.CartLine, error)
	// SetQuantity clamps qty to [1, stock].
	SetQuantity(ctx context.Context, userID, itemID string, qty int) (*model.CartLine, error)
	Remove(ctx context.Context, userID, itemID string) error
	Count(ctx context.Context, userID string) (int, error)
}

type cartService struct {
	catalog repository.CatalogRepository
	cart    repository.CartRepository
}

// NewCartService constructs a CartService.
func NewCartService(catalog repository.CatalogRepository, cart repository.CartRepository) CartService {
	return &cartService{catalog: catalog, cart: cart}
}

func (s *cartService) View(ctx context.Context, userID string) (*CartView, error) {
	lines, err := s.cart.ListLines(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list cart")
	}
	return newCartView(lines), nil
}

func (s *cartService) Add(ctx context.Context, userID, productID string) (*model.CartItem, error) {
	if productID == "" {
		return nil, ErrProductNotFound
	}
	p, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "find product")
	}
	if !p.IsActive {
		return nil, ErrProductNotFound
	}
	if !p.InStock() {
		return nil, ErrOutOfStock
	}

	item, err := s.cart.AddOrIncrement(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStockLimit
		}
		return nil, errors.Wrap(err, "add to cart")
	}
	return item, nil
}

func (s *cartService) Increment(ctx context.Context, userID, itemID string) (*model.CartLine, error) {
	line, err := s.findLine(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if !line.CanIncrement() {
		return nil, ErrStockLimit
	}
	return s.store(ctx, line, line.Quantity+1)
}

func (s *cartService) Decrement(ctx context.Context, userID, itemID string) (*model.CartLine, error) {
	line, err := s.findLine(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if !line.CanDecrement() {
		line.ApplyPricing()
		return line, nil
	}
	return s.store(ctx, line, line.Quantity-1)
}

func (s *cartService) SetQuantity(ctx context.Context, userID, itemID string, qty int) (*model.CartLine, error) {
	line, err := s.findLine(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if qty > line.Product.StockQuantity {
		qty = line.Product.StockQuantity
	}
	if qty < 1 {
		qty = 1
	}
	if qty == line.Quantity {
		line.ApplyPricing()
		return line, nil
	}
	return s.store(ctx, line, qty)
}

func (s *cartService) Remove(ctx context.Context, userID, itemID string) error {
	if itemID == "" {
		return ErrCartItemNotFound
	}
	removed, err := s.cart.Remove(ctx, userID, itemID)
	if err != nil {
		return errors.Wrap(err, "remove cart item")
	}
	if !removed {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *cartService) Count(ctx context.Context, userID string) (int, error) {
	return s.cart.Count(ctx, userID)
}

func (s *cartService) findLine(ctx context.Context, userID, itemID string) (*model.CartLine, error) {
	if itemID == "" {
		return nil, ErrCartItemNotFound
	}
	line, err := s.cart.FindLine(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, errors.Wrap(err, "find cart item")
	}
	return line, nil
}

func (s *cartService) store(ctx context.Context, line *model.CartLine, qty int) (*model.CartLine, error) {
	item, err := s.cart.SetQuantity(ctx, line.UserID, line.ID, qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, errors.Wrap(err, "update cart quantity")
	}
	line.CartItem = *item
	line.ApplyPricing()
	return line, nil
}

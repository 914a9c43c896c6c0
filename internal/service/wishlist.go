package service

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"storefront/internal/model"
	"storefront/internal/repository"
)

const emptyWishlistMessage = "Your wishlist is empty"

// WishlistView lists saved products. Message is set when the list is empty.
type WishlistView struct {
	Items   []model.WishlistLine `json:"items"`
	Empty   bool                 `json:"empty"`
	Message string               `json:"message,omitempty"`
}

// WishlistService manages saved products.
type WishlistService interface {
	View(ctx context.Context, userID string) (*WishlistView, error)
	// Add saves the product; created is false when it was already saved.
	Add(ctx context.Context, userID, productID string) (item *model.WishlistItem, created bool, err error)
	Remove(ctx context.Context, userID, itemID string) error
	// MoveToCart adds the saved product to the cart. The wishlist row stays.
	MoveToCart(ctx context.Context, userID, itemID string) (*model.CartItem, error)
	Count(ctx context.Context, userID string) (int, error)
}

type wishlistService struct {
	catalog  repository.CatalogRepository
	wishlist repository.WishlistRepository
	cart     CartService
}

// NewWishlistService constructs a WishlistService. Moves to the cart go through cart.
func NewWishlistService(catalog repository.CatalogRepository, wishlist repository.WishlistRepository, cart CartService) WishlistService {
	return &wishlistService{catalog: catalog, wishlist: wishlist, cart: cart}
}

func (s *wishlistService) View(ctx context.Context, userID string) (*WishlistView, error) {
	lines, err := s.wishlist.ListLines(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list wishlist")
	}
	if len(lines) == 0 {
		return &WishlistView{Items: make([]model.WishlistLine, 0), Empty: true, Message: emptyWishlistMessage}, nil
	}
	for i := range lines {
		lines[i].Product.ApplyPricing()
	}
	return &WishlistView{Items: lines}, nil
}

func (s *wishlistService) Add(ctx context.Context, userID, productID string) (*model.WishlistItem, bool, error) {
	if productID == "" {
		return nil, false, ErrProductNotFound
	}
	p, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrProductNotFound
		}
		return nil, false, errors.Wrap(err, "find product")
	}
	if !p.IsActive {
		return nil, false, ErrProductNotFound
	}

	item, created, err := s.wishlist.Add(ctx, userID, productID)
	if err != nil {
		return nil, false, errors.Wrap(err, "add to wishlist")
	}
	return item, created, nil
}

func (s *wishlistService) Remove(ctx context.Context, userID, itemID string) error {
	if itemID == "" {
		return ErrWishlistItemNotFound
	}
	removed, err := s.wishlist.Remove(ctx, userID, itemID)
	if err != nil {
		return errors.Wrap(err, "remove wishlist item")
	}
	if !removed {
		return ErrWishlistItemNotFound
	}
	return nil
}

func (s *wishlistService) MoveToCart(ctx context.Context, userID, itemID string) (*model.CartItem, error) {
	if itemID == "" {
		return nil, ErrWishlistItemNotFound
	}
	item, err := s.wishlist.FindItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWishlistItemNotFound
		}
		return nil, errors.Wrap(err, "find wishlist item")
	}
	return s.cart.Add(ctx, userID, item.ProductID)
}

func (s *wishlistService) Count(ctx context.Context, userID string) (int, error) {
	return s.wishlist.Count(ctx, userID)
}

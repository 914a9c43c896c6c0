package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
	repoMocks "storefront/internal/repository/mocks"
)

func TestWishlistService_View(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		mWish := new(repoMocks.MockWishlistRepository)
		mWish.On("ListLines", ctx, "u1").Return([]model.WishlistLine{}, nil)

		view, err := NewWishlistService(nil, mWish, nil).View(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, view.Empty)
		assert.Equal(t, "Your wishlist is empty", view.Message)
		assert.NotNil(t, view.Items)
	})

	t.Run("priced items", func(t *testing.T) {
		mWish := new(repoMocks.MockWishlistRepository)
		mWish.On("ListLines", ctx, "u1").Return([]model.WishlistLine{{
			WishlistItem: model.WishlistItem{ID: "w1"},
			Product:      model.Product{Price: dec("1000"), DiscountPercent: 20},
		}}, nil)

		view, err := NewWishlistService(nil, mWish, nil).View(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, view.Empty)
		assert.Empty(t, view.Message)
		assert.True(t, dec("800").Equal(view.Items[0].Product.EffectivePrice))
	})
}

func TestWishlistService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("existing row is returned", func(t *testing.T) {
		mCatalog := new(repoMocks.MockCatalogRepository)
		mWish := new(repoMocks.MockWishlistRepository)
		mCatalog.On("FindProductByID", ctx, "p1").Return(&model.Product{ID: "p1", IsActive: true}, nil)
		mWish.On("Add", ctx, "u1", "p1").Return(&model.WishlistItem{ID: "w1"}, false, nil)

		item, created, err := NewWishlistService(mCatalog, mWish, nil).Add(ctx, "u1", "p1")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "w1", item.ID)
	})

	t.Run("unknown product", func(t *testing.T) {
		mCatalog := new(repoMocks.MockCatalogRepository)
		mWish := new(repoMocks.MockWishlistRepository)
		mCatalog.On("FindProductByID", ctx, "p9").Return(nil, sql.ErrNoRows)

		_, _, err := NewWishlistService(mCatalog, mWish, nil).Add(ctx, "u1", "p9")
		assert.ErrorIs(t, err, ErrProductNotFound)
		mWish.AssertNotCalled(t, "Add", ctx, "u1", "p9")
	})
}

func TestWishlistService_Remove(t *testing.T) {
	ctx := context.Background()
	mWish := new(repoMocks.MockWishlistRepository)
	mWish.On("Remove", ctx, "u1", "w1").Return(true, nil)
	mWish.On("Remove", ctx, "u1", "w2").Return(false, nil)
	svc := NewWishlistService(nil, mWish, nil)

	assert.NoError(t, svc.Remove(ctx, "u1", "w1"))
	assert.ErrorIs(t, svc.Remove(ctx, "u1", "w2"), ErrWishlistItemNotFound)
}

func TestWishlistService_MoveToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("adds product and keeps the wishlist row", func(t *testing.T) {
		mCatalog := new(repoMocks.MockCatalogRepository)
		mCart := new(repoMocks.MockCartRepository)
		mWish := new(repoMocks.MockWishlistRepository)
		mWish.On("FindItem", ctx, "u1", "w1").Return(&model.WishlistItem{ID: "w1", ProductID: "p1"}, nil)
		mCatalog.On("FindProductByID", ctx, "p1").Return(&model.Product{ID: "p1", IsActive: true, StockQuantity: 4}, nil)
		mCart.On("AddOrIncrement", ctx, "u1", "p1").Return(&model.CartItem{ID: "ci1", Quantity: 1}, nil)

		svc := NewWishlistService(mCatalog, mWish, NewCartService(mCatalog, mCart))
		item, err := svc.MoveToCart(ctx, "u1", "w1")
		require.NoError(t, err)
		assert.Equal(t, "ci1", item.ID)
		mWish.AssertNotCalled(t, "Remove", ctx, "u1", "w1")
		mCart.AssertExpectations(t)
	})

	t.Run("cart refusal is passed through", func(t *testing.T) {
		mCatalog := new(repoMocks.MockCatalogRepository)
		mWish := new(repoMocks.MockWishlistRepository)
		mWish.On("FindItem", ctx, "u1", "w1").Return(&model.WishlistItem{ID: "w1", ProductID: "p1"}, nil)
		mCatalog.On("FindProductByID", ctx, "p1").Return(&model.Product{ID: "p1", IsActive: true}, nil)

		svc := NewWishlistService(mCatalog, mWish, NewCartService(mCatalog, nil))
		_, err := svc.MoveToCart(ctx, "u1", "w1")
		assert.ErrorIs(t, err, ErrOutOfStock)
	})

	t.Run("unknown item", func(t *testing.T) {
		mWish := new(repoMocks.MockWishlistRepository)
		mWish.On("FindItem", ctx, "u1", "w9").Return(nil, sql.ErrNoRows)

		_, err := NewWishlistService(nil, mWish, nil).MoveToCart(ctx, "u1", "w9")
		assert.ErrorIs(t, err, ErrWishlistItemNotFound)
	})
}

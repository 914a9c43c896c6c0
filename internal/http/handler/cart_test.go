package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
	"storefront/internal/service"
	serviceMocks "storefront/internal/service/mocks"
)

const testProductID = "2c8d6f0e-9b3a-4f1d-8e7c-6a5b4c3d2e1f"

func TestAddToCart(t *testing.T) {
	mockSvc := new(serviceMocks.MockCartService)
	app := newApp(testUserID)
	app.Post("/cart/items", AddToCart(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Add", mock.Anything, testUserID, testProductID).
			Return(&model.CartItem{ID: testItemID, ProductID: testProductID, Quantity: 2}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/cart/items", map[string]string{"product_id": testProductID}))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var body struct {
			Item    model.CartItem `json:"item"`
			Message string         `json:"message"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 2, body.Item.Quantity)
		assert.Equal(t, "Added to cart", body.Message)
	})

	t.Run("missing product", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/cart/items", map[string]string{}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Equal(t, "product_id is required", body.Error.Message)
	})

	t.Run("out of stock", func(t *testing.T) {
		mockSvc.On("Add", mock.Anything, testUserID, testProductID).Return(nil, service.ErrOutOfStock).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/cart/items", map[string]string{"product_id": testProductID}))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "OUT_OF_STOCK", body.Error.Code)
		assert.Equal(t, "This product is currently unavailable", body.Error.Message)
	})

	mockSvc.AssertExpectations(t)
}

func TestCartItemOperations(t *testing.T) {
	mockSvc := new(serviceMocks.MockCartService)
	app := newApp(testUserID)
	app.Put("/cart/items/:id", SetCartItemQuantity(mockSvc))
	app.Post("/cart/items/:id/increment", IncrementCartItem(mockSvc))
	app.Post("/cart/items/:id/decrement", DecrementCartItem(mockSvc))
	app.Delete("/cart/items/:id", RemoveCartItem(mockSvc))

	line := &model.CartLine{CartItem: model.CartItem{ID: testItemID, Quantity: 1}}

	t.Run("set quantity", func(t *testing.T) {
		mockSvc.On("SetQuantity", mock.Anything, testUserID, testItemID, 7).Return(line, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/cart/items/"+testItemID, map[string]int{"quantity": 7}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPut, "/cart/items/not-a-uuid", map[string]int{"quantity": 2}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("increment at stock", func(t *testing.T) {
		mockSvc.On("Increment", mock.Anything, testUserID, testItemID).Return(nil, service.ErrStockLimit).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/cart/items/"+testItemID+"/increment", nil))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "STOCK_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("decrement", func(t *testing.T) {
		mockSvc.On("Decrement", mock.Anything, testUserID, testItemID).Return(line, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/cart/items/"+testItemID+"/decrement", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("remove missing line", func(t *testing.T) {
		mockSvc.On("Remove", mock.Anything, testUserID, testItemID).Return(service.ErrCartItemNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/cart/items/"+testItemID, nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("remove", func(t *testing.T) {
		mockSvc.On("Remove", mock.Anything, testUserID, testItemID).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/cart/items/"+testItemID, nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestViewCart(t *testing.T) {
	mockSvc := new(serviceMocks.MockCartService)
	app := newApp(testUserID)
	app.Get("/cart", ViewCart(mockSvc))
	app.Get("/cart/count", CartCount(mockSvc))

	mockSvc.On("View", mock.Anything, testUserID).Return(&service.CartView{Items: []model.CartLine{}}, nil).Once()
	mockSvc.On("Count", mock.Anything, testUserID).Return(4, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/cart/count", nil))
	var body map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 4, body["count"])

	mockSvc.AssertExpectations(t)
}

func TestWishlist(t *testing.T) {
	mockSvc := new(serviceMocks.MockWishlistService)
	app := newApp(testUserID)
	app.Get("/wishlist", ViewWishlist(mockSvc))
	app.Post("/wishlist/items", AddToWishlist(mockSvc))
	app.Delete("/wishlist/items/:id", RemoveFromWishlist(mockSvc))
	app.Post("/wishlist/items/:id/move-to-cart", MoveWishlistToCart(mockSvc))
	app.Get("/wishlist/count", WishlistCount(mockSvc))

	t.Run("count", func(t *testing.T) {
		mockSvc.On("Count", mock.Anything, testUserID).Return(3, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/wishlist/count", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"count":3}`, readBody(t, resp))
	})

	t.Run("empty", func(t *testing.T) {
		mockSvc.On("View", mock.Anything, testUserID).
			Return(&service.WishlistView{Items: []model.WishlistLine{}, Empty: true, Message: "Your wishlist is empty"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/wishlist", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, true, body["empty"])
		assert.Equal(t, "Your wishlist is empty", body["message"])
		assert.Equal(t, []any{}, body["items"])
	})

	t.Run("add new", func(t *testing.T) {
		mockSvc.On("Add", mock.Anything, testUserID, testProductID).Return(&model.WishlistItem{ID: testItemID}, true, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/wishlist/items", map[string]string{"product_id": testProductID}))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("add existing", func(t *testing.T) {
		mockSvc.On("Add", mock.Anything, testUserID, testProductID).Return(&model.WishlistItem{ID: testItemID}, false, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/wishlist/items", map[string]string{"product_id": testProductID}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["created"])
	})

	t.Run("move to cart", func(t *testing.T) {
		mockSvc.On("MoveToCart", mock.Anything, testUserID, testItemID).Return(&model.CartItem{ID: "c1", Quantity: 1}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/wishlist/items/"+testItemID+"/move-to-cart", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("remove unknown", func(t *testing.T) {
		mockSvc.On("Remove", mock.Anything, testUserID, testItemID).Return(service.ErrWishlistItemNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/wishlist/items/"+testItemID, nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Wishlist item not found", decodeError(t, resp).Error.Message)
	})

	mockSvc.AssertExpectations(t)
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
	"storefront/internal/service"
	serviceMocks "storefront/internal/service/mocks"
)

const testAddressID = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"

func TestPlaceOrder(t *testing.T) {
	mockSvc := new(serviceMocks.MockCheckoutService)
	app := newApp(testUserID)
	app.Post("/checkout", PlaceOrder(mockSvc))

	order := &model.Order{ID: "o1", OrderNumber: "CB20260501000001", TotalAmount: decimal.NewFromInt(800)}

	t.Run("placed", func(t *testing.T) {
		mockSvc.On("PlaceOrder", mock.Anything, testUserID, service.PlaceOrderInput{
			AddressID:      testAddressID,
			CouponCode:     "SAVE10",
			IdempotencyKey: "body-key",
		}).Return(&service.PlaceOrderResult{Order: order}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/checkout", map[string]string{
			"address_id":      testAddressID,
			"coupon_code":     " SAVE10 ",
			"idempotency_key": "body-key",
		}))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var body struct {
			Order    model.Order `json:"order"`
			Replayed bool        `json:"replayed"`
			Message  string      `json:"message"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "CB20260501000001", body.Order.OrderNumber)
		assert.False(t, body.Replayed)
		assert.Equal(t, "Order placed successfully!", body.Message)
	})

	t.Run("header key wins and replay answers 200", func(t *testing.T) {
		mockSvc.On("PlaceOrder", mock.Anything, testUserID, service.PlaceOrderInput{
			AddressID:      testAddressID,
			IdempotencyKey: "header-key",
		}).Return(&service.PlaceOrderResult{Order: order, Replayed: true}, nil).Once()

		req := jsonRequest(http.MethodPost, "/checkout", map[string]string{"address_id": testAddressID, "idempotency_key": "body-key"})
		req.Header.Set(IdempotencyKeyHeader, "header-key")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("oversized header key", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/checkout", map[string]string{"address_id": testAddressID})
		req.Header.Set(IdempotencyKeyHeader, strings.Repeat("k", 129))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Equal(t, "Idempotency-Key must be at most 128 characters", body.Error.Message)
	})

	t.Run("empty cart", func(t *testing.T) {
		mockSvc.On("PlaceOrder", mock.Anything, testUserID, service.PlaceOrderInput{AddressID: testAddressID}).
			Return(nil, service.ErrCartEmpty).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/checkout", map[string]string{"address_id": testAddressID}))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "CART_EMPTY", body.Error.Code)
		assert.Equal(t, "Cart is empty: Add items to cart before checkout", body.Error.Message)
	})

	t.Run("no address", func(t *testing.T) {
		mockSvc.On("PlaceOrder", mock.Anything, testUserID, service.PlaceOrderInput{}).
			Return(nil, service.ErrAddressRequired).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/checkout", map[string]string{}))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "Please select a delivery address", decodeError(t, resp).Error.Message)
	})

	t.Run("malformed address id", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/checkout", map[string]string{"address_id": "home"}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "address_id must be a valid id", decodeError(t, resp).Error.Message)
	})

	t.Run("stock changed", func(t *testing.T) {
		mockSvc.On("PlaceOrder", mock.Anything, testUserID, service.PlaceOrderInput{AddressID: testAddressID}).
			Return(nil, service.ErrInsufficientStock).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/checkout", map[string]string{"address_id": testAddressID}))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestAddAddress(t *testing.T) {
	mockSvc := new(serviceMocks.MockCheckoutService)
	app := newApp(testUserID)
	app.Post("/checkout/addresses", AddAddress(mockSvc))

	valid := map[string]string{
		"full_name":     "Asha Verma",
		"phone":         "9999999999",
		"address_line1": "1 Main Road",
		"city":          "Tonk",
		"state":         "Rajasthan",
		"pincode":       "304001",
	}

	t.Run("saved", func(t *testing.T) {
		mockSvc.On("AddAddress", mock.Anything, testUserID, service.AddressInput{
			FullName:     "Asha Verma",
			Phone:        "9999999999",
			AddressLine1: "1 Main Road",
			City:         "Tonk",
			State:        "Rajasthan",
			Pincode:      "304001",
		}).Return(&model.Address{ID: testAddressID, IsDefault: true}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/checkout/addresses", valid))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("missing pincode", func(t *testing.T) {
		body := map[string]string{}
		for k, v := range valid {
			body[k] = v
		}
		delete(body, "pincode")

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/checkout/addresses", body))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "pincode is required", decodeError(t, resp).Error.Message)
	})

	mockSvc.AssertExpectations(t)
}

func TestCheckoutSummary(t *testing.T) {
	mockSvc := new(serviceMocks.MockCheckoutService)
	app := newApp(testUserID)
	app.Get("/checkout", CheckoutSummary(mockSvc))

	mockSvc.On("Summary", mock.Anything, testUserID).Return(&service.CheckoutSummary{
		Addresses: []model.Address{{ID: testAddressID, IsDefault: true}},
		Cart:      &service.CartView{Items: []model.CartLine{}},
	}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/checkout", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

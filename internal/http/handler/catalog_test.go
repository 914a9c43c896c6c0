package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
	"storefront/internal/service"
	serviceMocks "storefront/internal/service/mocks"
)

func TestHome(t *testing.T) {
	mockSvc := new(serviceMocks.MockCatalogService)
	count := 3

	t.Run("anonymous", func(t *testing.T) {
		app := newApp("")
		app.Get("/", Home(mockSvc))
		mockSvc.On("Home", mock.Anything, "").Return(&service.HomePage{Latest: []model.Product{}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotContains(t, body, "cart_count")
	})

	t.Run("signed in", func(t *testing.T) {
		app := newApp(testUserID)
		app.Get("/", Home(mockSvc))
		mockSvc.On("Home", mock.Anything, testUserID).Return(&service.HomePage{CartCount: &count, WishlistCount: &count}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, float64(3), body["cart_count"])
	})

	mockSvc.AssertExpectations(t)
}

func TestListProducts(t *testing.T) {
	mockSvc := new(serviceMocks.MockCatalogService)
	app := newApp("")
	app.Get("/products", ListProducts(mockSvc))
	category := "0e7a4a4c-1b7e-4c55-a3b1-52f1e6d6d0a9"

	t.Run("success", func(t *testing.T) {
		expected := &service.ProductListResult{
			Items: []model.Product{{ID: "p1", Name: "Kurta", Price: decimal.NewFromInt(1000), EffectivePrice: decimal.NewFromInt(800)}},
			Total: 1,
			Limit: 10,
		}
		mockSvc.On("ListProducts", mock.Anything, service.ProductQuery{CategoryID: category, Search: "kur", Limit: 10, Offset: 0}).
			Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/products?category="+category+"&q=kur&limit=10", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Data []struct {
				Name           string `json:"name"`
				EffectivePrice string `json:"effective_price"`
			} `json:"data"`
			Total int `json:"total"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		require.Len(t, result.Data, 1)
		assert.Equal(t, "800", result.Data[0].EffectivePrice)
		assert.Equal(t, 1, result.Total)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/products?limit=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/products?offset=-x", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid category", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/products?category=sarees", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_CATEGORY", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("ListProducts", mock.Anything, service.ProductQuery{}).Return(nil, errors.New("service error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/products", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.Equal(t, "Failed to load products", body.Error.Message)
	})

	mockSvc.AssertExpectations(t)
}

func TestGetProduct(t *testing.T) {
	mockSvc := new(serviceMocks.MockCatalogService)
	app := newApp("")
	app.Get("/product/:slug", GetProduct(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("GetProduct", mock.Anything, "silk-saree").Return(&model.Product{ID: "p1", Slug: "silk-saree"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/product/silk-saree", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var p model.Product
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
		assert.Equal(t, "p1", p.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("GetProduct", mock.Anything, "gone").Return(nil, service.ErrProductNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/product/gone", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
		assert.Equal(t, "Product not found", body.Error.Message)
	})

	mockSvc.AssertExpectations(t)
}

func TestListCategoriesAndBanners(t *testing.T) {
	mockSvc := new(serviceMocks.MockCatalogService)
	app := newApp("")
	app.Get("/categories", ListCategories(mockSvc))
	app.Get("/banners", ListBanners(mockSvc))

	mockSvc.On("Categories", mock.Anything).Return([]model.Category{{ID: "c1", Slug: "sarees"}}, nil).Once()
	mockSvc.On("Banners", mock.Anything).Return(nil, errors.New("db down")).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/categories", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cats struct {
		Data []model.Category `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cats))
	assert.Len(t, cats.Data, 1)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/banners", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to load banners", decodeError(t, resp).Error.Message)

	mockSvc.AssertExpectations(t)
}

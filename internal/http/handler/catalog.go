package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"storefront/internal/http/middleware"
	"storefront/internal/service"
)

// Home godoc
// @Summary Home page payload
// @Tags catalog
// @Produce json
// @Success 200 {object} service.HomePage
// @Router / [get]
func Home(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := svc.Home(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err, "Failed to load home page")
		}
		return c.JSON(page)
	}
}

// ListProducts godoc
// @Summary List active products
// @Tags catalog
// @Produce json
// @Param category query string false "category id"
// @Param q query string false "name search"
// @Param limit query int false "page size" default(24)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} service.ProductListResult
// @Router /products [get]
func ListProducts(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := intQuery(c, "limit", 0)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := intQuery(c, "offset", 0)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		category := c.Query("category")
		if category != "" {
			if _, err := uuid.Parse(category); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_CATEGORY", "invalid category")
			}
		}

		res, err := svc.ListProducts(c.UserContext(), service.ProductQuery{
			CategoryID: category,
			Search:     c.Query("q"),
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			return serviceError(c, err, "Failed to load products")
		}
		return c.JSON(res)
	}
}

// GetProduct godoc
// @Summary Product detail
// @Tags catalog
// @Produce json
// @Param slug path string true "product slug"
// @Success 200 {object} model.Product
// @Failure 404 {object} errorPayload
// @Router /product/{slug} [get]
func GetProduct(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.GetProduct(c.UserContext(), c.Params("slug"))
		if err != nil {
			return serviceError(c, err, "Failed to load product")
		}
		return c.JSON(p)
	}
}

// ListCategories returns the active categories.
func ListCategories(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := svc.Categories(c.UserContext())
		if err != nil {
			return serviceError(c, err, "Failed to load categories")
		}
		return c.JSON(fiber.Map{"data": cats})
	}
}

// ListBanners returns the active banners.
func ListBanners(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		banners, err := svc.Banners(c.UserContext())
		if err != nil {
			return serviceError(c, err, "Failed to load banners")
		}
		return c.JSON(fiber.Map{"data": banners})
	}
}

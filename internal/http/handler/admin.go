package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"storefront/internal/service"
)

type productRequest struct {
	CategoryID      string          `json:"category_id" validate:"omitempty,uuid"`
	Name            string          `json:"name" validate:"required,max=200"`
	Slug            string          `json:"slug" validate:"max=200"`
	Description     string          `json:"description" validate:"max=5000"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent int             `json:"discount_percent" validate:"min=0,max=100"`
	Images          []string        `json:"images" validate:"max=20,dive,required"`
	StockQuantity   int             `json:"stock_quantity" validate:"min=0"`
	SKU             string          `json:"sku" validate:"max=64"`
	IsActive        *bool           `json:"is_active"`
	IsFeatured      bool            `json:"is_featured"`
}

func (r productRequest) input() service.ProductInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.ProductInput{
		CategoryID:      r.CategoryID,
		Name:            r.Name,
		Slug:            r.Slug,
		Description:     r.Description,
		Price:           r.Price,
		DiscountPercent: r.DiscountPercent,
		Images:          r.Images,
		StockQuantity:   r.StockQuantity,
		SKU:             r.SKU,
		IsActive:        active,
		IsFeatured:      r.IsFeatured,
	}
}

func bindProduct(c *fiber.Ctx) (*productRequest, bool, error) {
	var req productRequest
	if ok, err := bind(c, &req); !ok {
		return nil, false, err
	}
	if !req.Price.IsPositive() {
		return nil, false, writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "price must be greater than 0")
	}
	return &req, true, nil
}

// AdminDashboard godoc
// @Summary Headline figures
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Failure 403 {object} errorPayload
// @Router /admin/dashboard [get]
func AdminDashboard(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.Dashboard(c.UserContext())
		if err != nil {
			return serviceError(c, err, "Failed to load dashboard")
		}
		return c.JSON(d)
	}
}

// AdminUsers lists every user with their roles.
func AdminUsers(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := svc.Users(c.UserContext())
		if err != nil {
			return serviceError(c, err, "Failed to load users")
		}
		return c.JSON(fiber.Map{"data": users})
	}
}

// GrantAdmin godoc
// @Summary Grant the admin role
// @Tags admin
// @Security BearerAuth
// @Param id path string true "user id"
// @Success 204
// @Router /admin/users/{id}/admin [put]
func GrantAdmin(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		if err := svc.GrantAdmin(c.UserContext(), id); err != nil {
			return serviceError(c, err, "Failed to update role")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RevokeAdmin godoc
// @Summary Revoke the admin role
// @Tags admin
// @Security BearerAuth
// @Param id path string true "user id"
// @Success 204
// @Router /admin/users/{id}/admin [delete]
func RevokeAdmin(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		if err := svc.RevokeAdmin(c.UserContext(), id); err != nil {
			return serviceError(c, err, "Failed to update role")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CreateProduct godoc
// @Summary Create a product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body productRequest true "product"
// @Success 201 {object} model.Product
// @Failure 409 {object} errorPayload
// @Router /admin/products [post]
func CreateProduct(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, ok, err := bindProduct(c)
		if !ok {
			return err
		}
		p, err := svc.CreateProduct(c.UserContext(), req.input())
		if err != nil {
			return serviceError(c, err, "Failed to save product")
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// UpdateProduct replaces a product's editable fields.
func UpdateProduct(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		req, ok, err := bindProduct(c)
		if !ok {
			return err
		}
		p, err := svc.UpdateProduct(c.UserContext(), id, req.input())
		if err != nil {
			return serviceError(c, err, "Failed to save product")
		}
		return c.JSON(p)
	}
}

// DeleteProduct removes a product.
func DeleteProduct(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		if err := svc.DeleteProduct(c.UserContext(), id); err != nil {
			return serviceError(c, err, "Failed to delete product")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

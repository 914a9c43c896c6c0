package handler

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/http/middleware"
	"storefront/internal/service"
)

type profileRequest struct {
	FullName string `json:"full_name" validate:"max=120"`
	Phone    string `json:"phone" validate:"max=20"`
}

// AccountOverview godoc
// @Summary Profile and order history
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AccountOverview
// @Router /account [get]
func AccountOverview(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ov, err := svc.Overview(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err, "Failed to load account")
		}
		return c.JSON(ov)
	}
}

// ListOrders returns the caller's orders, newest first.
func ListOrders(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := svc.Orders(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err, "Failed to load orders")
		}
		return c.JSON(fiber.Map{"data": orders})
	}
}

// GetOrder godoc
// @Summary One of the caller's orders with its items
// @Tags account
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Success 200 {object} model.Order
// @Failure 404 {object} errorPayload
// @Router /account/orders/{id} [get]
func GetOrder(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		order, err := svc.Order(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return serviceError(c, err, "Failed to load order")
		}
		return c.JSON(order)
	}
}

// OrderQRCode godoc
// @Summary PNG QR code for cash-on-delivery hand-off
// @Tags account
// @Produce png
// @Security BearerAuth
// @Param id path string true "order id"
// @Success 200 {file} binary
// @Router /account/orders/{id}/qrcode [get]
func OrderQRCode(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		png, err := svc.OrderQRCode(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return serviceError(c, err, "Failed to render QR code")
		}
		c.Set(fiber.HeaderCacheControl, "private, max-age=300")
		c.Type("png")
		return c.Send(png)
	}
}

// UpdateProfile sets the caller's full name and phone.
func UpdateProfile(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req profileRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		p, err := svc.UpdateProfile(c.UserContext(), middleware.UserID(c), service.ProfileInput{
			FullName: req.FullName,
			Phone:    req.Phone,
		})
		if err != nil {
			return serviceError(c, err, "Failed to update profile")
		}
		return c.JSON(p)
	}
}

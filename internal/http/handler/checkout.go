package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"storefront/internal/http/middleware"
	"storefront/internal/service"
)

// IdempotencyKeyHeader lets clients retry POST /checkout safely.
const IdempotencyKeyHeader = "Idempotency-Key"

type addressRequest struct {
	FullName     string `json:"full_name" validate:"required,max=120"`
	Phone        string `json:"phone" validate:"required,max=20"`
	AddressLine1 string `json:"address_line1" validate:"required,max=200"`
	AddressLine2 string `json:"address_line2" validate:"max=200"`
	City         string `json:"city" validate:"required,max=80"`
	State        string `json:"state" validate:"required,max=80"`
	Pincode      string `json:"pincode" validate:"required,max=10"`
}

type placeOrderRequest struct {
	AddressID      string `json:"address_id" validate:"omitempty,uuid"`
	CouponCode     string `json:"coupon_code" validate:"max=40"`
	IdempotencyKey string `json:"idempotency_key" validate:"max=128"`
}

// CheckoutSummary godoc
// @Summary Addresses and priced cart for the checkout page
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.CheckoutSummary
// @Router /checkout [get]
func CheckoutSummary(svc service.CheckoutService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sum, err := svc.Summary(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err, "Failed to load checkout")
		}
		return c.JSON(sum)
	}
}

// AddAddress godoc
// @Summary Save a delivery address
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body addressRequest true "address"
// @Success 201 {object} model.Address
// @Router /checkout/addresses [post]
func AddAddress(svc service.CheckoutService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req addressRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		addr, err := svc.AddAddress(c.UserContext(), middleware.UserID(c), service.AddressInput{
			FullName:     strings.TrimSpace(req.FullName),
			Phone:        strings.TrimSpace(req.Phone),
			AddressLine1: strings.TrimSpace(req.AddressLine1),
			AddressLine2: strings.TrimSpace(req.AddressLine2),
			City:         strings.TrimSpace(req.City),
			State:        strings.TrimSpace(req.State),
			Pincode:      strings.TrimSpace(req.Pincode),
		})
		if err != nil {
			return serviceError(c, err, "Failed to save address")
		}
		return c.Status(fiber.StatusCreated).JSON(addr)
	}
}

// PlaceOrder godoc
// @Summary Place a cash-on-delivery order from the cart
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "retry key"
// @Param body body placeOrderRequest true "checkout form"
// @Success 201 {object} service.PlaceOrderResult
// @Success 200 {object} service.PlaceOrderResult "replayed"
// @Failure 422 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /checkout [post]
func PlaceOrder(svc service.CheckoutService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req placeOrderRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		key := req.IdempotencyKey
		if h := c.Get(IdempotencyKeyHeader); h != "" {
			if err := validate.Var(h, "max=128"); err != nil {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", IdempotencyKeyHeader+" must be at most 128 characters")
			}
			key = utils.CopyString(h)
		}

		res, err := svc.PlaceOrder(c.UserContext(), middleware.UserID(c), service.PlaceOrderInput{
			AddressID:      req.AddressID,
			CouponCode:     strings.TrimSpace(req.CouponCode),
			IdempotencyKey: key,
		})
		if err != nil {
			return serviceError(c, err, "Failed to place order")
		}
		status := fiber.StatusCreated
		if res.Replayed {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(fiber.Map{
			"order":    res.Order,
			"replayed": res.Replayed,
			"message":  "Order placed successfully!",
		})
	}
}

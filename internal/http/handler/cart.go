package handler

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/http/middleware"
	"storefront/internal/service"
)

type productRef struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// ViewCart godoc
// @Summary Caller's cart with totals
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.CartView
// @Router /cart [get]
func ViewCart(svc service.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := svc.View(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err, "Failed to load cart")
		}
		return c.JSON(view)
	}
}

// AddToCart godoc
// @Summary Add one unit of a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body productRef true "product"
// @Success 201 {object} model.CartItem
// @Failure 409 {object} errorPayload
// @Router /cart/items [post]
func AddToCart(svc service.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req productRef
		if ok, err := bind(c, &req); !ok {
			return err
		}
		item, err := svc.Add(c.UserContext(), middleware.UserID(c), req.ProductID)
		if err != nil {
			return serviceError(c, err, "Failed to add to cart")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item, "message": "Added to cart"})
	}
}

// IncrementCartItem adds one unit to a cart line.
func IncrementCartItem(svc service.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		line, err := svc.Increment(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return serviceError(c, err, "Failed to update quantity")
		}
		return c.JSON(line)
	}
}

// DecrementCartItem removes one unit from a cart line, never going below one.
func DecrementCartItem(svc service.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		line, err := svc.Decrement(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return serviceError(c, err, "Failed to update quantity")
		}
		return c.JSON(line)
	}
}

// SetCartItemQuantity godoc
// @Summary Set a cart line quantity, clamped to [1, stock]
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "cart item id"
// @Param body body quantityRequest true "quantity"
// @Success 200 {object} model.CartLine
// @Router /cart/items/{id} [put]
func SetCartItemQuantity(svc service.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		var req quantityRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		line, err := svc.SetQuantity(c.UserContext(), middleware.UserID(c), id, req.Quantity)
		if err != nil {
			return serviceError(c, err, "Failed to update quantity")
		}
		return c.JSON(line)
	}
}

// RemoveCartItem deletes a cart line.
func RemoveCartItem(svc service.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		if err := svc.Remove(c.UserContext(), middleware.UserID(c), id); err != nil {
			return serviceError(c, err, "Failed to remove item")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CartCount returns the number of units in the cart.
func CartCount(svc service.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.Count(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err, "Failed to load cart")
		}
		return c.JSON(fiber.Map{"count": n})
	}
}

// WishlistCount returns the number of saved products.
func WishlistCount(svc service.WishlistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.Count(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err, "Failed to load wishlist")
		}
		return c.JSON(fiber.Map{"count": n})
	}
}

// ViewWishlist godoc
// @Summary Caller's wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.WishlistView
// @Router /wishlist [get]
func ViewWishlist(svc service.WishlistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := svc.View(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err, "Failed to load wishlist")
		}
		return c.JSON(view)
	}
}

// AddToWishlist saves a product. Saving it twice answers 200 with the existing row.
func AddToWishlist(svc service.WishlistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req productRef
		if ok, err := bind(c, &req); !ok {
			return err
		}
		item, created, err := svc.Add(c.UserContext(), middleware.UserID(c), req.ProductID)
		if err != nil {
			return serviceError(c, err, "Failed to add to wishlist")
		}
		status := fiber.StatusOK
		if created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(fiber.Map{"item": item, "created": created})
	}
}

// RemoveFromWishlist deletes a wishlist row.
func RemoveFromWishlist(svc service.WishlistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		if err := svc.Remove(c.UserContext(), middleware.UserID(c), id); err != nil {
			return serviceError(c, err, "Failed to remove item")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// MoveWishlistToCart adds a saved product to the cart.
func MoveWishlistToCart(svc service.WishlistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		item, err := svc.MoveToCart(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return serviceError(c, err, "Failed to add to cart")
		}
		return c.JSON(fiber.Map{"item": item, "message": "Added to cart"})
	}
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/service"
)

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContentPage serves the static page named slug.
func ContentPage(svc service.ContentService, slug string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := svc.Page(c.UserContext(), slug)
		if err != nil {
			return serviceError(c, err, "Failed to load page")
		}
		c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
		return c.JSON(page)
	}
}

// Contact godoc
// @Summary Send a message to the shop
// @Tags content
// @Accept json
// @Produce json
// @Param body body contactRequest true "message"
// @Success 200 {object} map[string]string
// @Router /contact [post]
func Contact(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req contactRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		msg, err := svc.Contact(c.UserContext(), service.ContactInput{
			Name:    req.Name,
			Email:   req.Email,
			Subject: req.Subject,
			Message: req.Message,
		})
		if err != nil {
			return serviceError(c, err, "Failed to send message")
		}
		return c.JSON(fiber.Map{"message": msg})
	}
}

package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/http/middleware"
	"storefront/internal/service"
)

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"max=120"`
	Phone    string `json:"phone" validate:"max=20"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// setSession stores the access token in an HTTP-only cookie for browser clients.
func setSession(c *fiber.Ctx, res *service.AuthResult) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.AccessToken,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SignUp godoc
// @Summary Register and sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signUpRequest true "registration"
// @Success 201 {object} service.AuthResult
// @Failure 409 {object} errorPayload
// @Router /auth/signup [post]
func SignUp(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signUpRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		res, err := svc.SignUp(c.UserContext(), service.SignUpInput{
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
			Phone:    req.Phone,
		})
		if err != nil {
			return serviceError(c, err, "Failed to create account")
		}
		setSession(c, res)
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// SignIn godoc
// @Summary Exchange credentials for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signInRequest true "credentials"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} errorPayload
// @Router /auth/signin [post]
func SignIn(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signInRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		res, err := svc.SignIn(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return serviceError(c, err, "Failed to sign in")
		}
		setSession(c, res)
		return c.JSON(res)
	}
}

// SignOut revokes the caller's token and clears the session cookie.
func SignOut(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.SignOut(c.UserContext(), middleware.Claims(c)); err != nil {
			return serviceError(c, err, "Failed to sign out")
		}
		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CurrentSession godoc
// @Summary The signed-in user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Session
// @Router /auth/session [get]
func CurrentSession(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := svc.Session(c.UserContext(), middleware.Claims(c))
		if err != nil {
			return serviceError(c, err, "Failed to load session")
		}
		return c.JSON(s)
	}
}

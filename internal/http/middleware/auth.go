package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"storefront/internal/auth"
	"storefront/internal/service"
)

const (
	// ClaimsLocalKey holds the verified *auth.Claims of the caller.
	ClaimsLocalKey = "claims"
	// SessionCookie carries the access token for browser clients.
	SessionCookie = "access_token"

	signInPath = "/auth"
)

// Authenticator verifies access tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// AdminChecker reports whether a user holds the admin role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Claims returns the caller's claims, or nil on anonymous requests.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}

// UserID returns the caller's user id, or "" on anonymous requests.
func UserID(c *fiber.Ctx) string {
	if claims := Claims(c); claims != nil {
		return claims.UserID()
	}
	return ""
}

// bearerToken reads the Authorization header first and falls back to the session cookie.
func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.Cookies(SessionCookie)
}

func wantsHTML(c *fiber.Ctx) bool {
	accept := c.Get(fiber.HeaderAccept)
	return strings.Contains(accept, fiber.MIMETextHTML) && !strings.Contains(accept, fiber.MIMEApplicationJSON)
}

func deny(c *fiber.Ctx, status int, code, message, redirect string) error {
	if wantsHTML(c) {
		return c.Redirect(redirect, fiber.StatusFound)
	}
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	body := fiber.Map{
		"request_id": rid,
		"error":      fiber.Map{"code": code, "message": message},
	}
	if status == fiber.StatusUnauthorized {
		body["redirect"] = redirect
	}
	return c.Status(status).JSON(body)
}

// authenticate resolves the caller. A missing token yields (nil, nil).
func authenticate(c *fiber.Ctx, authn Authenticator) (*auth.Claims, error) {
	token := bearerToken(c)
	if token == "" {
		return nil, nil
	}
	claims, err := authn.Authenticate(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return nil, nil
		}
		return nil, err
	}
	return claims, nil
}

// RequireAuth rejects anonymous callers. Browsers are redirected to the sign-in page;
// API clients get 401 with a redirect hint.
func RequireAuth(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := authenticate(c, authn)
		if err != nil {
			return err
		}
		if claims == nil {
			return deny(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", service.ErrUnauthenticated.Error(), signInPath)
		}
		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present and otherwise lets the request through.
func OptionalAuth(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := authenticate(c, authn)
		if err != nil {
			return err
		}
		if claims != nil {
			c.Locals(ClaimsLocalKey, claims)
		}
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth. Non-admins are sent back to the home page.
func RequireAdmin(admins AdminChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserID(c)
		if userID == "" {
			return deny(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", service.ErrUnauthenticated.Error(), signInPath)
		}
		ok, err := admins.IsAdmin(c.UserContext(), userID)
		if err != nil {
			return err
		}
		if !ok {
			return deny(c, fiber.StatusForbidden, "FORBIDDEN", "Admin access required", "/")
		}
		return c.Next()
	}
}

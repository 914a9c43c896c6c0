package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/auth"
	"storefront/internal/service"
	"storefront/internal/service/mocks"
)

func claimsFor(userID string) *auth.Claims {
	return &auth.Claims{Email: userID + "@example.com", Type: auth.TokenTypeAccess, RegisteredClaims: jwt.RegisteredClaims{Subject: userID, ID: "jti-" + userID}}
}

func whoami(c *fiber.Ctx) error {
	return c.SendString(UserID(c))
}

func TestRequireAuth(t *testing.T) {
	authn := new(mocks.MockAuthService)
	authn.On("Authenticate", mock.Anything, "good").Return(claimsFor("u1"), nil)
	authn.On("Authenticate", mock.Anything, "revoked").Return(nil, service.ErrUnauthenticated)
	authn.On("Authenticate", mock.Anything, "broken").Return(nil, errors.New("db down"))

	app := fiber.New()
	app.Use(RequestID())
	app.Get("/account", RequireAuth(authn), whoami)

	tests := []struct {
		name     string
		header   map[string]string
		cookie   string
		status   int
		body     string
		location string
	}{
		{name: "bearer token", header: map[string]string{"Authorization": "Bearer good"}, status: fiber.StatusOK, body: "u1"},
		{name: "lowercase scheme", header: map[string]string{"Authorization": "bearer good"}, status: fiber.StatusOK, body: "u1"},
		{name: "session cookie", cookie: "good", status: fiber.StatusOK, body: "u1"},
		{name: "browser without token", header: map[string]string{"Accept": "text/html,application/xhtml+xml"}, status: fiber.StatusFound, location: "/auth"},
		{name: "revoked token", header: map[string]string{"Authorization": "Bearer revoked"}, status: fiber.StatusUnauthorized},
		{name: "verification failure", header: map[string]string{"Authorization": "Bearer broken"}, status: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/account", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if tt.cookie != "" {
				req.Header.Set("Cookie", SessionCookie+"="+tt.cookie)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.body != "" {
				b, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.body, string(b))
			}
			if tt.location != "" {
				assert.Equal(t, tt.location, resp.Header.Get("Location"))
			}
		})
	}
}

func TestRequireAuth_JSONBody(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/account", RequireAuth(new(mocks.MockAuthService)), whoami)

	req := httptest.NewRequest("GET", "/account", nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, "rid-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body struct {
		RequestID string `json:"request_id"`
		Redirect  string `json:"redirect"`
		Error     struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "rid-1", body.RequestID)
	assert.Equal(t, "/auth", body.Redirect)
	assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
	assert.Equal(t, "Please sign in to continue", body.Error.Message)
}

func TestOptionalAuth(t *testing.T) {
	authn := new(mocks.MockAuthService)
	authn.On("Authenticate", mock.Anything, "good").Return(claimsFor("u1"), nil)
	authn.On("Authenticate", mock.Anything, "expired").Return(nil, service.ErrUnauthenticated)

	app := fiber.New()
	app.Get("/", OptionalAuth(authn), whoami)

	for token, want := range map[string]string{"": "", "good": "u1", "expired": ""} {
		req := httptest.NewRequest("GET", "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, want, string(b), "token %q", token)
	}
	authn.AssertNotCalled(t, "Authenticate", mock.Anything, "")
}

func TestRequireAdmin(t *testing.T) {
	authn := new(mocks.MockAuthService)
	authn.On("Authenticate", mock.Anything, "admin").Return(claimsFor("a1"), nil)
	authn.On("Authenticate", mock.Anything, "shopper").Return(claimsFor("u1"), nil)

	admins := new(mocks.MockAdminService)
	admins.On("IsAdmin", mock.Anything, "a1").Return(true, nil)
	admins.On("IsAdmin", mock.Anything, "u1").Return(false, nil)

	app := fiber.New()
	admin := app.Group("/admin", RequireAuth(authn), RequireAdmin(admins))
	admin.Get("/dashboard", whoami)

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/dashboard", nil)
		req.Header.Set("Authorization", "Bearer admin")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("api client forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/dashboard", nil)
		req.Header.Set("Authorization", "Bearer shopper")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("browser redirected home", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/dashboard", nil)
		req.Header.Set("Authorization", "Bearer shopper")
		req.Header.Set("Accept", "text/html")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
	})

	t.Run("without RequireAuth", func(t *testing.T) {
		bare := fiber.New()
		bare.Get("/admin", RequireAdmin(admins), whoami)
		resp, err := bare.Test(httptest.NewRequest("GET", "/admin", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

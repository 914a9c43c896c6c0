package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeteredApp(t *testing.T) (*fiber.App, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Handler())
	return app, m, reg
}

func TestPrometheusMiddleware(t *testing.T) {
	app, m, _ := newMeteredApp(t)
	app.Get("/cart", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Delete("/cart/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Post("/cart/items", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad request")
	})
	app.Post("/checkout", func(c *fiber.Ctx) error { return errors.New("db down") })

	tests := []struct {
		method, target string
		wantStatus     int
		labels         []string
	}{
		{"GET", "/cart", fiber.StatusOK, []string{"GET", "/cart", "200"}},
		{"DELETE", "/cart/items/ci-1", fiber.StatusNoContent, []string{"DELETE", "/cart/items/:id", "204"}},
		{"POST", "/cart/items", fiber.StatusBadRequest, []string{"POST", "/cart/items", "400"}},
		{"POST", "/checkout", fiber.StatusInternalServerError, []string{"POST", "/checkout", "500"}},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tc.method, tc.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCount.WithLabelValues(tc.labels...)))
		})
	}

	assert.Equal(t, 4, testutil.CollectAndCount(m.requestDuration))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
}

func TestPrometheusMiddleware_SkipsProbesAndScrapes(t *testing.T) {
	app, _, reg := newMeteredApp(t)
	for _, p := range []string{"/metrics", "/health", "/healthz"} {
		app.Get(p, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		_, err := app.Test(httptest.NewRequest("GET", p, nil))
		require.NoError(t, err)
	}

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "http_requests_total" {
			assert.Empty(t, mf.GetMetric())
		}
	}
}

func TestPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}

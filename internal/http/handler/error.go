package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"storefront/internal/http/middleware"
	"storefront/internal/service"
	"storefront/internal/storage"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "CART_EMPTY", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

type knownError struct {
	err    error
	status int
	code   string
}

// knownErrors maps service errors to responses. The service message is shown as-is.
var knownErrors = []knownError{
	{service.ErrProductNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrCartItemNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrWishlistItemNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrOrderNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrPageNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrAddressNotFound, fiber.StatusNotFound, "ADDRESS_NOT_FOUND"},
	{service.ErrOutOfStock, fiber.StatusConflict, "OUT_OF_STOCK"},
	{service.ErrStockLimit, fiber.StatusConflict, "STOCK_LIMIT"},
	{service.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{service.ErrEmailTaken, fiber.StatusConflict, "EMAIL_TAKEN"},
	{service.ErrSlugTaken, fiber.StatusConflict, "SLUG_TAKEN"},
	{service.ErrCartEmpty, fiber.StatusUnprocessableEntity, "CART_EMPTY"},
	{service.ErrAddressRequired, fiber.StatusUnprocessableEntity, "ADDRESS_REQUIRED"},
	{service.ErrInvalidCoupon, fiber.StatusUnprocessableEntity, "INVALID_COUPON"},
	{service.ErrCouponMinimum, fiber.StatusUnprocessableEntity, "COUPON_MINIMUM"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED"},
	{service.ErrUnsupportedMedia, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"},
	{service.ErrIDRequired, fiber.StatusBadRequest, "BAD_REQUEST"},
	{service.ErrReaderNil, fiber.StatusBadRequest, "BAD_REQUEST"},
}

// serviceError translates err into the error envelope. Unknown errors are logged and
// answered with the generic failure message.
func serviceError(c *fiber.Ctx, err error, failure string) error {
	for _, k := range knownErrors {
		if errors.Is(err, k.err) {
			return writeError(c, k.status, k.code, k.err.Error())
		}
	}
	if errors.Is(err, storage.ErrObjectNotFound) {
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	}

	slog.ErrorContext(c.UserContext(), "request_failed",
		slog.String("request_id", requestIDFromCtx(c)),
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", failure)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusRequestTimeout:
			return writeError(c, status, "TIMEOUT", "request timed out")
		default:
			slog.ErrorContext(c.UserContext(), "unhandled_error",
				slog.String("request_id", requestIDFromCtx(c)),
				slog.String("error", err.Error()),
			)
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}

package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// idParam reads a UUID route parameter. When it is malformed the 400 response is written
// and ok is false.
func idParam(c *fiber.Ctx, name string) (id string, ok bool, err error) {
	id = c.Params(name)
	if _, perr := uuid.Parse(id); perr != nil {
		return "", false, writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return id, true, nil
}

// intQuery reads an optional integer query parameter.
func intQuery(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

package api

import (
	"strconv"

	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Malformed ids can never match a record, they read as not found.
func paramID(c *fiber.Ctx, key, notFound string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(key), 10, 64)
	if err != nil || id == 0 {
		return 0, services.NotFoundError(notFound)
	}
	return uint(id), nil
}

// queryState reads the optional explicit target state of a toggle
// endpoint, nil means toggle.
func queryState(c *fiber.Ctx) (*bool, error) {
	raw := c.Query("state")
	if len(raw) == 0 {
		return nil, nil
	}
	state, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "state must be true or false")
	}
	return &state, nil
}

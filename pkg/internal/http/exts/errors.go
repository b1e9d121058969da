package exts

import (
	"errors"

	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func StatusOfKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindSelfAction, services.KindConflict, services.KindAuthorization:
		return fiber.StatusBadRequest
	case services.KindAuthentication:
		return fiber.StatusUnauthorized
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindDependency:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every failure as {"error": message}. Only anticipated
// errors get their message through, the rest are logged and hidden.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var svcErr *services.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &svcErr):
		status = StatusOfKind(svcErr.Kind)
		message = svcErr.Message
		if svcErr.Kind == services.KindDependency {
			log.Warn().Err(err).Str("path", c.Path()).Msg("Dependency failed while handling request...")
		}
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		message = fiberErr.Message
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("An error occurred when handling request...")
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Sanjey2005/friends-associates/internal/repository"
)

// ErrorHandler renders handler errors as {"error": message}. Errors created
// with fiber.NewError keep their status and message; anything else is logged
// and reported as a generic 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		}

		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

func notFoundAs(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, message)
	}
	return err
}

// duplicateAs maps a unique violation on a user's phone or email to a 400
// carrying the matching message.
func duplicateAs(err error, phoneMessage, emailMessage string) error {
	var dup *repository.DuplicateError
	if !errors.As(err, &dup) {
		return err
	}
	switch dup.Column {
	case "phone":
		return fiber.NewError(fiber.StatusBadRequest, phoneMessage)
	case "email":
		return fiber.NewError(fiber.StatusBadRequest, emailMessage)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Record already exists")
	}
}

package handlers

import (
	"errors"

	"landora/internal/middleware"
	"landora/internal/models"
	"landora/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto status codes. Validation failures and
// malformed ids are client errors; anything unrecognised is a storage fault.
func respondError(c *fiber.Ctx, failure string, err error) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verrs.Map(),
		})
	case errors.Is(err, models.ErrInvalidPropertyID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid property ID",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrPropertyNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Property not found",
		})
	}

	middleware.Logger(c).Error(failure, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": failure,
		"error":   err.Error(),
	})
}

package handler

import (
	"errors"
	"fmt"

	"go-erp-sync/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes and validates the request body into out. Failures come
// back as 400 *fiber.Error values for the app's error handler.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
	}
	if errs := validator.ValidateStruct(out); len(errs) > 0 {
		first := errs[0]
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag))
	}
	return nil
}

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

package response

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// ValidationFailed renders a field error map as a 400 response.
func ValidationFailed(c *fiber.Ctx, message string, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"errors":  fields,
	})
}

// FromError maps a service error to its HTTP response. Unrecognized errors
// become a 500 with a generic message so internals never leak to clients.
func FromError(c *fiber.Ctx, err error) error {
	var (
		validationErr   *apperrors.ValidationError
		notFoundErr     *apperrors.NotFoundError
		unauthorizedErr *apperrors.UnauthorizedError
		conflictErr     *apperrors.ConflictError
		domainErr       *apperrors.DomainError
	)

	switch {
	case stderrors.As(err, &validationErr):
		return ValidationFailed(c, validationErr.Message, validationErr.Fields)
	case stderrors.As(err, &notFoundErr):
		return NotFound(c, notFoundErr.Error())
	case stderrors.As(err, &unauthorizedErr):
		return Forbidden(c, unauthorizedErr.Message)
	case stderrors.As(err, &conflictErr):
		return Error(c, fiber.StatusConflict, conflictErr.Message)
	case stderrors.As(err, &domainErr):
		return BadRequest(c, domainErr.Message)
	default:
		return ServerError(c, "internal server error")
	}
}

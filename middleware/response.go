package middleware

import (
	"errors"

	"courseledger/apperrors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// JsonResponse writes the {success, data, message} envelope.
func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": success,
		"message": message,
		"data":    data,
	})
}

// ValidationErrorResponse answers 400 with the per-field messages as data.
func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusBadRequest, false, "Validation failed!", errors)
}

// ErrorHandler renders any error returned by a handler in the envelope,
// mapping the apperrors taxonomy onto status codes. Server-side failures are
// logged.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return JsonResponse(c, fe.Code, false, fe.Message, nil)
		}

		status := apperrors.HTTPStatus(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		}
		return JsonResponse(c, status, false, apperrors.Message(err), nil)
	}
}

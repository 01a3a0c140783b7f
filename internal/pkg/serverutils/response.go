package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type APIResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Message: message,
		Data:    data,
	}
}

// ErrorHandlerMiddleware converts escaped handler errors into a uniform JSON
// body instead of fiber's default text response.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			code = fiber.StatusBadRequest
		}

		return ctx.Status(code).JSON(APIResponse{Message: err.Error()})
	}
}

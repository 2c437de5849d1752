package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/domain"
)

// ErrorHandler renders every error as {"error":{"code","message"}}.
// Wrapped causes are logged, never sent to the client.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// Check if it's a Fiber error
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := "HTTP_ERROR"
			if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
				code = "PAYLOAD_TOO_LARGE"
			}
			return writeError(c, fiberErr.Code, code, fiberErr.Message)
		}

		// Check if it's our AppError
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			switch {
			case appErr.StatusCode >= 500:
				logger.ErrorContext(c.UserContext(), "internal error",
					slog.String("request_id", requestID(c)),
					slog.String("code", appErr.Code),
					slog.String("path", c.Path()),
					slog.Any("error", appErr.Err),
				)
			case appErr.Err != nil:
				logger.DebugContext(c.UserContext(), "request rejected",
					slog.String("request_id", requestID(c)),
					slog.String("code", appErr.Code),
					slog.Any("error", appErr.Err),
				)
			}

			return writeError(c, appErr.StatusCode, appErr.Code, appErr.Message)
		}

		// Unknown error - log and return generic message
		logger.ErrorContext(c.UserContext(), "unhandled error",
			slog.String("request_id", requestID(c)),
			slog.Any("error", err),
			slog.String("path", c.Path()),
		)

		return writeError(c, domain.ErrInternal.StatusCode, domain.ErrInternal.Code, domain.ErrInternal.Message)
	}
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

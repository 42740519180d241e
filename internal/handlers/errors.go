package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RespondError is the single place where error kinds become HTTP statuses.
// 5xx bodies never carry the cause; it is logged instead.
func RespondError(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	reason := apperr.Reason(err)
	message := err.Error()

	switch {
	case status >= fiber.StatusInternalServerError:
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals("requestid"),
			"error", err,
		)
		message = "Internal server error"
		reason = ""
	case status == fiber.StatusUnauthorized, status == fiber.StatusForbidden, status == fiber.StatusConflict:
		metrics.RecordDenial(reason)
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
		Reason:  reason,
	})
}

func badBody(c *fiber.Ctx) error {
	return RespondError(c, apperr.Validation("Invalid request body"))
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid " + name)
	}
	return id, nil
}

// ErrorHandler handles errors that escape handlers, mostly fiber's own
// (404 route not found, 413 body too large).
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}

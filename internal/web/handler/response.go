package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tourmarket/tourmarket/internal/apperror"
)

// Response is the envelope of every JSON answer.
type Response struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Error   apperror.Kind `json:"error,omitempty"`
	Data    any           `json:"data,omitempty"`
}

// OK writes a successful envelope with status code.
func OK(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

// ErrorHandler maps errors returned by handlers to the envelope.
// Errors outside the apperror taxonomy are internal and never leak their text.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(Response{Message: fiberErr.Message})
	}

	kind := apperror.KindOf(err)
	status := apperror.StatusCodeOf(kind)
	message := err.Error()

	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	if kind == apperror.KindInternal || kind == apperror.KindConfiguration {
		log.Error().Err(err).Str("path", c.Path()).Str("kind", string(kind)).Msg("request failed")

		if kind == apperror.KindInternal {
			message = "Internal server error"
		}
	}

	details := []ErrorResponse(nil)

	var invalid *InvalidRequestError
	if errors.As(err, &invalid) {
		details = invalid.Fields
	}

	resp := Response{Message: message, Error: kind}
	if details != nil {
		resp.Data = details
	}

	return c.Status(status).JSON(resp)
}

package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tourmarket/tourmarket/internal/apperror"
)

// ErrorResponse describes one failed field.
type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
}

// InvalidRequestError is returned for bodies that fail validation.
type InvalidRequestError struct {
	Fields []ErrorResponse
}

// Error implements the error interface.
func (e *InvalidRequestError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.FailedField)
	}

	return "Invalid request: " + strings.Join(names, ", ")
}

// Unwrap makes errors.Is(err, apperror.ErrValidation) hold.
func (e *InvalidRequestError) Unwrap() error {
	return apperror.ErrValidation
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks data against its validate tags.
func Validate(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return apperror.Internal(err, "failed to validate request")
	}

	out := &InvalidRequestError{}

	for _, fe := range errs {
		out.Fields = append(out.Fields, ErrorResponse{
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
		})
	}

	return out
}

// Bind parses the JSON body into data and validates it.
func Bind(c *fiber.Ctx, data any) error {
	if err := c.BodyParser(data); err != nil {
		return apperror.Wrap(apperror.KindValidation, err, "Invalid request body.")
	}

	return Validate(data)
}

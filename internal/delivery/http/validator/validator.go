// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// EchoValidator wraps a validator.Validate instance for Echo.
type EchoValidator struct {
	validate *validator.Validate
}

// New creates the request validator used by the HTTP server.
func New() *EchoValidator {
	return &EchoValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks a bound request struct against its `validate` tags.
func (v *EchoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}

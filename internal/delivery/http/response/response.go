// Package response renders the unified API envelope for the HTTP delivery.
package response

import (
	"net/http"

	deliverycontext "sabor/internal/delivery/context"
	domainerrors "sabor/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// Success writes a successful response wrapping data in the standard envelope.
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, domainerrors.SuccessResponse{
		Data: data,
		Meta: &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)},
	})
}

// Error writes an error response in the standard envelope.
func Error(c echo.Context, statusCode int, errorCode, message string, details any) error {
	return c.JSON(statusCode, domainerrors.ErrorResponse{
		Error: &domainerrors.ErrorInfo{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
		Meta: &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)},
	})
}

// BindingError writes the 400 response used when request binding fails.
func BindingError(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// Unauthorized writes a 401 response.
func Unauthorized(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, message, nil)
}

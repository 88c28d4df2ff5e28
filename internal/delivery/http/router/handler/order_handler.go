package handler

import (
	"net/http"

	"sabor/internal/delivery/http/response"
	"sabor/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// checkoutRequest selects the delivery address for the order. An absent
// address_id means the user's default address.
type checkoutRequest struct {
	AddressID *uuid.UUID `json:"address_id"`
}

// OrderHandler holds dependencies for checkout and order history handlers.
type OrderHandler struct {
	uc usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Checkout turns the user's cart into a placed order.
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}

	order, err := h.uc.Checkout(c.Request().Context(), userID, &usecase.CheckoutInput{AddressID: req.AddressID})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order)
}

// List returns one page of the user's order history, newest first.
func (h *OrderHandler) List(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	output, err := h.uc.ListOrders(c.Request().Context(), userID, queryInt(c, "page"), queryInt(c, "per_page"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

// Get returns a single order owned by the user.
func (h *OrderHandler) Get(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.uc.GetOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order)
}

// GetQR renders the order's receipt QR code as a PNG image.
func (h *OrderHandler) GetQR(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.uc.GetOrderQR(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

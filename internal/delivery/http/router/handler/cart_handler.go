package handler

import (
	"net/http"

	"sabor/internal/delivery/http/response"
	"sabor/internal/domain/entity"
	"sabor/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// addCartItemRequest is the payload for adding a configured item to the cart.
type addCartItemRequest struct {
	StoreSlug  string                `json:"store_slug" validate:"required"`
	ItemID     string                `json:"item_id" validate:"required"`
	Quantity   int                   `json:"quantity" validate:"required,min=1"`
	Selections entity.AddOnSelection `json:"selections"`
	Note       string                `json:"note"`
}

// updateCartLineRequest carries the mutable fields of a cart line. A
// quantity of zero or below removes the line.
type updateCartLineRequest struct {
	Quantity *int    `json:"quantity"`
	Note     *string `json:"note"`
}

// CartHandler holds dependencies for cart handlers.
type CartHandler struct {
	uc usecase.CartUsecase
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Get returns the authenticated user's cart with totals.
func (h *CartHandler) Get(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	cart, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cart)
}

// AddItem adds a configured item to the cart.
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cart, err := h.uc.AddItem(c.Request().Context(), userID, &usecase.AddCartItemInput{
		StoreSlug:  req.StoreSlug,
		ItemID:     req.ItemID,
		Quantity:   req.Quantity,
		Selections: req.Selections,
		Note:       req.Note,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, cart)
}

// UpdateLine changes the quantity or note of a cart line.
func (h *CartHandler) UpdateLine(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	var req updateCartLineRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart line input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cart, err := h.uc.UpdateLine(c.Request().Context(), userID, c.Param("key"), &usecase.UpdateCartLineInput{
		Quantity: req.Quantity,
		Note:     req.Note,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cart)
}

// RemoveLine deletes a single line from the cart.
func (h *CartHandler) RemoveLine(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	cart, err := h.uc.RemoveLine(c.Request().Context(), userID, c.Param("key"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cart)
}

// Clear empties the authenticated user's cart.
func (h *CartHandler) Clear(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	if err := h.uc.ClearCart(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

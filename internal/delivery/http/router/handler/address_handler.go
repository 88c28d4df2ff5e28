package handler

import (
	"net/http"

	"sabor/internal/delivery/http/response"
	"sabor/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// addressRequest is the payload for creating or replacing an address.
type addressRequest struct {
	Rua         string `json:"rua" validate:"required"`
	Numero      string `json:"numero" validate:"required"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro" validate:"required"`
	Cidade      string `json:"cidade" validate:"required"`
	Estado      string `json:"estado" validate:"required,len=2"`
	CEP         string `json:"cep" validate:"required"`
	Referencia  string `json:"referencia"`
	IsDefault   bool   `json:"is_default"`
}

// AddressHandler holds dependencies for address-related handlers.
type AddressHandler struct {
	uc usecase.AddressUsecase
}

// NewAddressHandler is the constructor for AddressHandler, injected by Fx.
func NewAddressHandler(uc usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

// Create adds a new delivery address for the authenticated user.
func (h *AddressHandler) Create(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	address, err := h.uc.CreateAddress(c.Request().Context(), userID, addressInputFromRequest(&req))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, address)
}

// List returns the authenticated user's addresses, default first.
func (h *AddressHandler) List(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	addresses, err := h.uc.ListAddresses(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, addresses)
}

// Update replaces the fields of one of the user's addresses.
func (h *AddressHandler) Update(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	address, err := h.uc.UpdateAddress(c.Request().Context(), userID, addressID, addressInputFromRequest(&req))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, address)
}

// Delete removes one of the user's addresses.
func (h *AddressHandler) Delete(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteAddress(c.Request().Context(), userID, addressID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Address deleted"})
}

// SetDefault promotes one of the user's addresses to default.
func (h *AddressHandler) SetDefault(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	address, err := h.uc.SetDefaultAddress(c.Request().Context(), userID, addressID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, address)
}

func addressInputFromRequest(req *addressRequest) *usecase.AddressInput {
	return &usecase.AddressInput{
		Rua:         req.Rua,
		Numero:      req.Numero,
		Complemento: req.Complemento,
		Bairro:      req.Bairro,
		Cidade:      req.Cidade,
		Estado:      req.Estado,
		CEP:         req.CEP,
		Referencia:  req.Referencia,
		IsDefault:   req.IsDefault,
	}
}

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, response.BindingError(c, "INVALID_INPUT", "Invalid "+name+" parameter")
	}

	return id, nil
}

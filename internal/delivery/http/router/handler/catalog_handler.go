package handler

import (
	"net/http"
	"strconv"
	"time"

	"sabor/internal/delivery/http/response"
	"sabor/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// listStoresRequest is the query payload for the store browse endpoint.
type listStoresRequest struct {
	Query        string   `query:"q"`
	Category     string   `query:"category"`
	FreeDelivery *bool    `query:"free_delivery"`
	MinRating    *float64 `query:"min_rating"`
	OpenNow      bool     `query:"open_now"`
	Latitude     *float64 `query:"lat"`
	Longitude    *float64 `query:"lng"`
	Page         int      `query:"page"`
	PerPage      int      `query:"per_page"`
}

// listProductsRequest is the query payload for the product listing endpoint.
type listProductsRequest struct {
	Query    string `query:"q"`
	Category string `query:"category"`
	Store    string `query:"store"`
	Page     int    `query:"page"`
	PerPage  int    `query:"per_page"`
}

// CatalogHandler holds dependencies for catalog browsing handlers.
type CatalogHandler struct {
	uc usecase.CatalogUsecase
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(uc usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListStores returns one page of stores matching the query filters.
func (h *CatalogHandler) ListStores(c echo.Context) error {
	var req listStoresRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid store filters")
	}

	output, err := h.uc.ListStores(c.Request().Context(), &usecase.ListStoresInput{
		Query:        req.Query,
		Category:     req.Category,
		FreeDelivery: req.FreeDelivery,
		MinRating:    req.MinRating,
		OpenNow:      req.OpenNow,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Page:         req.Page,
		PerPage:      req.PerPage,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

// GetStore returns a single store with its full menu.
func (h *CatalogHandler) GetStore(c echo.Context) error {
	output, err := h.uc.GetStore(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

// GetStoreAvailability reports whether a store is open, optionally at a
// caller-provided RFC 3339 instant.
func (h *CatalogHandler) GetStoreAvailability(c echo.Context) error {
	var at time.Time
	if raw := c.QueryParam("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid 'at' timestamp, expected RFC 3339")
		}
		at = parsed
	}

	output, err := h.uc.GetStoreAvailability(c.Request().Context(), c.Param("slug"), at)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

// ListCategories returns the menu categories across all stores.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, categories)
}

// ListProducts returns one page of the cross-store product listing.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	var req listProductsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product filters")
	}

	output, err := h.uc.ListProducts(c.Request().Context(), &usecase.ListProductsInput{
		Query:    req.Query,
		Category: req.Category,
		Store:    req.Store,
		Page:     req.Page,
		PerPage:  req.PerPage,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

// queryInt parses an integer query parameter, defaulting to zero.
func queryInt(c echo.Context, name string) int {
	value, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}

	return value
}

// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"sabor/internal/domain/availability"
	"sabor/internal/domain/entity"
)

// ListStoresInput carries the filters for the store browse screen.
// Zero values mean "no filter".
type ListStoresInput struct {
	Query        string   // Case-insensitive match on store name and menu item names.
	Category     string   // Only stores carrying a menu category of this name.
	FreeDelivery *bool    // Filter by the free-delivery flag.
	MinRating    *float64 // Only stores rated at or above this value.
	OpenNow      bool     // Only stores currently accepting orders.
	Latitude     *float64 // With Longitude, sorts results by distance and fills DistanceKm.
	Longitude    *float64
	Page         int // 1-based page number. Zero means the first page.
	PerPage      int // Page size. Zero means the default.
}

// StoreSummary is a store enriched with its evaluated availability and,
// when the caller provided coordinates, the straight-line distance.
type StoreSummary struct {
	Store        *entity.Store
	Availability availability.Evaluation
	DistanceKm   *float64
}

// ListStoresOutput is one page of store summaries.
type ListStoresOutput struct {
	Stores  []*StoreSummary
	Total   int
	Page    int
	PerPage int
}

// StoreDetailOutput is a single store with its full menu and availability.
type StoreDetailOutput struct {
	Store        *entity.Store
	Availability availability.Evaluation
}

// AvailabilityOutput reports a store's open state at a point in time.
type AvailabilityOutput struct {
	Slug         string
	Schedule     entity.StoreSchedule
	EvaluatedAt  time.Time
	Availability availability.Evaluation
}

// ListProductsInput carries the filters for the cross-store product listing.
type ListProductsInput struct {
	Query    string // Case-insensitive match on item name and description.
	Category string // Only items in a menu category of this name.
	Store    string // Only items from the store with this slug.
	Page     int
	PerPage  int
}

// ListProductsOutput is one page of products.
type ListProductsOutput struct {
	Products []*entity.Product
	Total    int
	Page     int
	PerPage  int
}

// CatalogUsecase defines read operations over the store catalog.
type CatalogUsecase interface {
	ListStores(ctx context.Context, input *ListStoresInput) (*ListStoresOutput, error)
	GetStore(ctx context.Context, slug string) (*StoreDetailOutput, error)
	GetStoreAvailability(ctx context.Context, slug string, at time.Time) (*AvailabilityOutput, error)
	ListCategories(ctx context.Context) ([]*entity.CategorySummary, error)
	ListProducts(ctx context.Context, input *ListProductsInput) (*ListProductsOutput, error)
}

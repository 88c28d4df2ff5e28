// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"sabor/internal/domain/entity"
	"sabor/internal/errors"
)

// ErrStoreNotFound is returned when a store is not found in the catalog.
var ErrStoreNotFound = errors.New("store not found")

// CatalogRepository defines read access to the store catalog. The catalog is
// loaded once at startup and served from memory; there are no writes.
type CatalogRepository interface {
	// ListStores returns every store in the catalog.
	ListStores(ctx context.Context) ([]*entity.Store, error)

	// FindStoreBySlug retrieves a single store, with its full menu, by slug.
	FindStoreBySlug(ctx context.Context, slug string) (*entity.Store, error)

	// ListCategories returns the deduplicated menu category names across all
	// stores, with per-category store counts, sorted by name.
	ListCategories(ctx context.Context) ([]*entity.CategorySummary, error)

	// ListProducts returns every menu item across all stores, flattened with
	// store and category context.
	ListProducts(ctx context.Context) ([]*entity.Product, error)
}

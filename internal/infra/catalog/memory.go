package catalog

import (
	"context"
	"log/slog"
	"sort"

	"sabor/config"
	"sabor/internal/domain/entity"
	"sabor/internal/domain/repository"

	"go.uber.org/fx"
)

// memoryCatalog is an immutable in-memory CatalogRepository. All derived
// views (category summaries, flattened products) are built once at startup.
type memoryCatalog struct {
	stores     []*entity.Store
	bySlug     map[string]*entity.Store
	categories []*entity.CategorySummary
	products   []*entity.Product
}

// Params holds dependencies for the catalog repository, injected by Fx
type Params struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewCatalogRepository loads the catalog and serves it from memory.
func NewCatalogRepository(params Params) (repository.CatalogRepository, error) {
	stores, err := Load(params.Ctx, params.Config, params.Logger)
	if err != nil {
		return nil, err
	}

	repo := newMemoryCatalog(stores)

	params.Logger.Info("Catalog ready",
		slog.Int("stores", len(repo.stores)),
		slog.Int("categories", len(repo.categories)),
		slog.Int("products", len(repo.products)),
	)

	return repo, nil
}

func newMemoryCatalog(stores []*entity.Store) *memoryCatalog {
	repo := &memoryCatalog{
		stores: stores,
		bySlug: make(map[string]*entity.Store, len(stores)),
	}

	categoryStores := make(map[string]map[string]struct{})
	for _, store := range stores {
		repo.bySlug[store.Slug] = store

		for i := range store.Categories {
			category := &store.Categories[i]

			slugs, ok := categoryStores[category.Name]
			if !ok {
				slugs = make(map[string]struct{})
				categoryStores[category.Name] = slugs
			}
			slugs[store.Slug] = struct{}{}

			for j := range category.Items {
				repo.products = append(repo.products, &entity.Product{
					StoreSlug:       store.Slug,
					StoreName:       store.Name,
					CategoryName:    category.Name,
					AvgDeliveryTime: store.AvgDeliveryTime,
					DeliveryFee:     store.DeliveryFee,
					FreeDelivery:    store.FreeDelivery,
					Item:            category.Items[j],
				})
			}
		}
	}

	for name, slugs := range categoryStores {
		repo.categories = append(repo.categories, &entity.CategorySummary{
			Name:       name,
			StoreCount: len(slugs),
		})
	}
	sort.Slice(repo.categories, func(i, j int) bool {
		return repo.categories[i].Name < repo.categories[j].Name
	})

	return repo
}

// ListStores returns every store in the catalog.
func (r *memoryCatalog) ListStores(_ context.Context) ([]*entity.Store, error) {
	return r.stores, nil
}

// FindStoreBySlug retrieves a single store, with its full menu, by slug.
func (r *memoryCatalog) FindStoreBySlug(_ context.Context, slug string) (*entity.Store, error) {
	store, ok := r.bySlug[slug]
	if !ok {
		return nil, repository.ErrStoreNotFound
	}

	return store, nil
}

// ListCategories returns the deduplicated category names across all stores.
func (r *memoryCatalog) ListCategories(_ context.Context) ([]*entity.CategorySummary, error) {
	return r.categories, nil
}

// ListProducts returns every menu item flattened with store and category context.
func (r *memoryCatalog) ListProducts(_ context.Context) ([]*entity.Product, error) {
	return r.products, nil
}

// Module provides the catalog FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewCatalogRepository),
)

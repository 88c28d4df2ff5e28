package impl

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	deliverycontext "sabor/internal/delivery/context"
	"sabor/internal/domain/availability"
	"sabor/internal/domain/entity"
	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/domain/repository"
	"sabor/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// catalogService implements the CatalogUsecase interface over the in-memory catalog.
type catalogService struct {
	catalogRepo repository.CatalogRepository
	now         func() time.Time
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	CatalogRepo repository.CatalogRepository
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		catalogRepo: params.CatalogRepo,
		now:         time.Now,
		logger:      params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListStores returns one page of stores matching the given filters, each
// enriched with its evaluated availability.
func (srv *catalogService) ListStores(ctx context.Context, input *usecase.ListStoresInput) (*usecase.ListStoresOutput, error) {
	stores, err := srv.catalogRepo.ListStores(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	now := srv.now()
	query := strings.ToLower(strings.TrimSpace(input.Query))

	var matched []*usecase.StoreSummary
	for _, store := range stores {
		if query != "" && !storeMatchesQuery(store, query) {
			continue
		}
		if input.Category != "" && store.Category(input.Category) == nil {
			continue
		}
		if input.FreeDelivery != nil && store.FreeDelivery != *input.FreeDelivery {
			continue
		}
		if input.MinRating != nil && store.Rating < *input.MinRating {
			continue
		}

		evaluation := availability.Evaluate(store.Schedule, now)
		if input.OpenNow && !evaluation.Open {
			continue
		}

		summary := &usecase.StoreSummary{Store: store, Availability: evaluation}
		if input.Latitude != nil && input.Longitude != nil {
			origin := orb.Point{*input.Longitude, *input.Latitude}
			distanceKm := geo.Distance(origin, orb.Point{store.Longitude, store.Latitude}) / 1000
			summary.DistanceKm = &distanceKm
		}

		matched = append(matched, summary)
	}

	if input.Latitude != nil && input.Longitude != nil {
		sort.SliceStable(matched, func(i, j int) bool {
			return *matched[i].DistanceKm < *matched[j].DistanceKm
		})
	}

	page, perPage := normalizePage(input.Page, input.PerPage)
	total := len(matched)
	pageItems := paginate(matched, page, perPage)

	srv.log(ctx).Debug("Listed stores", slog.Int("total", total), slog.Int("page", page))

	return &usecase.ListStoresOutput{
		Stores:  pageItems,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// GetStore returns a single store with its full menu and availability.
func (srv *catalogService) GetStore(ctx context.Context, slug string) (*usecase.StoreDetailOutput, error) {
	store, err := srv.catalogRepo.FindStoreBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, errors.Wrap(domainerrors.ErrStoreNotFound, slug)
		}

		return nil, errors.Wrap(err, "failed to find store")
	}

	return &usecase.StoreDetailOutput{
		Store:        store,
		Availability: availability.Evaluate(store.Schedule, srv.now()),
	}, nil
}

// GetStoreAvailability evaluates a store's schedule at the given moment.
// A zero time means "now".
func (srv *catalogService) GetStoreAvailability(ctx context.Context, slug string, at time.Time) (*usecase.AvailabilityOutput, error) {
	store, err := srv.catalogRepo.FindStoreBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, errors.Wrap(domainerrors.ErrStoreNotFound, slug)
		}

		return nil, errors.Wrap(err, "failed to find store")
	}

	if at.IsZero() {
		at = srv.now()
	}

	return &usecase.AvailabilityOutput{
		Slug:         store.Slug,
		Schedule:     store.Schedule,
		EvaluatedAt:  at,
		Availability: availability.Evaluate(store.Schedule, at),
	}, nil
}

// ListCategories returns the deduplicated menu categories with store counts.
func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.CategorySummary, error) {
	return srv.catalogRepo.ListCategories(ctx)
}

// ListProducts returns one page of the flattened cross-store product list.
func (srv *catalogService) ListProducts(ctx context.Context, input *usecase.ListProductsInput) (*usecase.ListProductsOutput, error) {
	products, err := srv.catalogRepo.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	query := strings.ToLower(strings.TrimSpace(input.Query))

	var matched []*entity.Product
	for _, product := range products {
		if query != "" &&
			!strings.Contains(strings.ToLower(product.Item.Name), query) &&
			!strings.Contains(strings.ToLower(product.Item.Description), query) {
			continue
		}
		if input.Category != "" && product.CategoryName != input.Category {
			continue
		}
		if input.Store != "" && product.StoreSlug != input.Store {
			continue
		}

		matched = append(matched, product)
	}

	page, perPage := normalizePage(input.Page, input.PerPage)
	total := len(matched)

	return &usecase.ListProductsOutput{
		Products: paginate(matched, page, perPage),
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// storeMatchesQuery reports whether the query matches the store name or any
// of its menu item names.
func storeMatchesQuery(store *entity.Store, query string) bool {
	if strings.Contains(strings.ToLower(store.Name), query) {
		return true
	}
	for i := range store.Categories {
		for j := range store.Categories[i].Items {
			if strings.Contains(strings.ToLower(store.Categories[i].Items[j].Name), query) {
				return true
			}
		}
	}

	return false
}

// normalizePage clamps page and page size to sane values.
func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPageSize
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}

	return page, perPage
}

// paginate slices one page out of items.
func paginate[T any](items []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}

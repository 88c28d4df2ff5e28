package impl

import (
	"context"
	"log/slog"
	"unicode/utf8"

	deliverycontext "sabor/internal/delivery/context"
	"sabor/internal/domain/entity"
	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/domain/pricing"
	"sabor/internal/domain/repository"
	"sabor/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager   repository.TransactionManager
	cartRepo    repository.CartRepository
	catalogRepo repository.CatalogRepository
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	CartRepo    repository.CartRepository
	CatalogRepo repository.CatalogRepository
	Logger      *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager:   params.TxManager,
		cartRepo:    params.CartRepo,
		catalogRepo: params.CatalogRepo,
		logger:      params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart returns the user's cart with its running totals.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*usecase.CartOutput, error) {
	lines, err := srv.cartRepo.FindLinesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart lines")
	}

	output := buildCartOutput(lines)
	if len(lines) > 0 {
		output.DeliveryFee = srv.deliveryFee(ctx, output.StoreSlug)
		output.GrandTotal = output.Subtotal.Add(output.DeliveryFee)
	}

	return output, nil
}

// deliveryFee resolves the fee of the store the cart belongs to. A store
// that has left the catalog since the lines were added counts as free; the
// checkout revalidates against the live catalog.
func (srv *cartService) deliveryFee(ctx context.Context, storeSlug string) decimal.Decimal {
	store, err := srv.catalogRepo.FindStoreBySlug(ctx, storeSlug)
	if err != nil {
		srv.log(ctx).Warn("Cart store missing from catalog", slog.String("store", storeSlug), slog.Any("error", err))

		return decimal.Zero
	}
	if store.FreeDelivery {
		return decimal.Zero
	}

	return pricing.ParseDeliveryFee(store.DeliveryFee)
}

// AddItem prices a configured item against the live catalog and adds it to
// the cart. Adding the exact same configuration again increases the existing
// line's quantity instead of creating a duplicate. The cart holds items from
// a single store at a time.
func (srv *cartService) AddItem(ctx context.Context, userID uuid.UUID, input *usecase.AddCartItemInput) (*usecase.CartOutput, error) {
	srv.log(ctx).Debug("Adding cart item", slog.Any("userID", userID), slog.String("store", input.StoreSlug), slog.String("item", input.ItemID))

	if utf8.RuneCountInString(input.Note) > entity.MaxNoteLength {
		return nil, errors.Wrap(domainerrors.ErrNoteTooLong, "note exceeds maximum length")
	}

	store, err := srv.catalogRepo.FindStoreBySlug(ctx, input.StoreSlug)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, errors.Wrap(domainerrors.ErrStoreNotFound, input.StoreSlug)
		}

		return nil, errors.Wrap(err, "failed to find store")
	}

	item := store.Item(input.ItemID)
	if item == nil {
		return nil, errors.Wrap(domainerrors.ErrItemNotFound, input.ItemID)
	}

	quote, err := pricing.Price(item, input.Selections, input.Quantity)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidQuantity) {
			return nil, errors.Wrap(domainerrors.ErrInvalidQuantity, err.Error())
		}

		return nil, errors.Wrap(domainerrors.ErrInvalidSelection, err.Error())
	}

	lineKey := entity.LineKey(input.ItemID, input.Selections, input.Note)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()

		existingLines, err := cartRepo.FindLinesByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to load cart lines")
		}
		if len(existingLines) > 0 && existingLines[0].StoreSlug != store.Slug {
			return errors.Wrap(domainerrors.ErrConflict, "cart already holds items from another store")
		}

		for _, existing := range existingLines {
			if existing.Key != lineKey {
				continue
			}

			existing.Quantity += input.Quantity
			if err := cartRepo.UpdateLine(ctx, existing); err != nil {
				return errors.Wrap(err, "failed to update cart line quantity")
			}

			return nil
		}

		newLine := &entity.CartLine{
			UserID:     userID,
			Key:        lineKey,
			StoreSlug:  store.Slug,
			StoreName:  store.Name,
			ItemID:     item.ID,
			ItemName:   item.Name,
			UnitPrice:  quote.UnitPrice,
			Quantity:   input.Quantity,
			Selections: input.Selections.Clone(),
			Note:       input.Note,
		}
		if err := cartRepo.CreateLine(ctx, newLine); err != nil {
			return errors.Wrap(err, "failed to create cart line")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute add cart item transaction", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute add cart item transaction")
	}

	return srv.GetCart(ctx, userID)
}

// UpdateLine changes the quantity or note of an existing cart line. Setting
// the quantity to zero or below removes the line. Changing the note changes
// the line's identity, so the line is re-keyed.
func (srv *cartService) UpdateLine(ctx context.Context, userID uuid.UUID, lineKey string, input *usecase.UpdateCartLineInput) (*usecase.CartOutput, error) {
	srv.log(ctx).Debug("Updating cart line", slog.Any("userID", userID), slog.String("lineKey", lineKey))

	if input.Quantity != nil && *input.Quantity < 1 {
		return srv.RemoveLine(ctx, userID, lineKey)
	}
	if input.Note != nil && utf8.RuneCountInString(*input.Note) > entity.MaxNoteLength {
		return nil, errors.Wrap(domainerrors.ErrNoteTooLong, "note exceeds maximum length")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()

		line, err := cartRepo.FindLineByKey(ctx, userID, lineKey)
		if err != nil {
			if errors.Is(err, repository.ErrCartLineNotFound) {
				return errors.Wrap(domainerrors.ErrCartLineNotFound, lineKey)
			}

			return errors.Wrap(err, "failed to find cart line")
		}

		if input.Quantity != nil {
			line.Quantity = *input.Quantity
		}
		if input.Note != nil && *input.Note != line.Note {
			line.Note = *input.Note
			line.Key = entity.LineKey(line.ItemID, line.Selections, line.Note)
		}

		if err := cartRepo.UpdateLine(ctx, line); err != nil {
			return errors.Wrap(err, "failed to update cart line")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute cart line update transaction", slog.String("lineKey", lineKey), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute cart line update transaction")
	}

	return srv.GetCart(ctx, userID)
}

// RemoveLine deletes a single line from the user's cart.
func (srv *cartService) RemoveLine(ctx context.Context, userID uuid.UUID, lineKey string) (*usecase.CartOutput, error) {
	srv.log(ctx).Debug("Removing cart line", slog.Any("userID", userID), slog.String("lineKey", lineKey))

	if err := srv.cartRepo.DeleteLineByKey(ctx, userID, lineKey); err != nil {
		if errors.Is(err, repository.ErrCartLineNotFound) {
			return nil, errors.Wrap(domainerrors.ErrCartLineNotFound, lineKey)
		}

		return nil, errors.Wrap(err, "failed to delete cart line")
	}

	return srv.GetCart(ctx, userID)
}

// ClearCart removes every line from the user's cart.
func (srv *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	srv.log(ctx).Debug("Clearing cart", slog.Any("userID", userID))

	if err := srv.cartRepo.DeleteLinesByUser(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}

	return nil
}

// buildCartOutput sums the cart lines into totals. All lines belong to the
// same store, so the store context is taken from the first line.
func buildCartOutput(lines []*entity.CartLine) *usecase.CartOutput {
	output := &usecase.CartOutput{
		Lines:       lines,
		Subtotal:    decimal.Zero,
		DeliveryFee: decimal.Zero,
	}

	for _, line := range lines {
		output.Subtotal = output.Subtotal.Add(line.LineTotal())
		output.ItemCount += line.Quantity
	}
	output.GrandTotal = output.Subtotal
	if len(lines) > 0 {
		output.StoreSlug = lines[0].StoreSlug
		output.StoreName = lines[0].StoreName
	}

	return output
}

package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "sabor/internal/delivery/context"
	"sabor/internal/domain/availability"
	"sabor/internal/domain/entity"
	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/domain/pricing"
	"sabor/internal/domain/repository"
	"sabor/internal/domain/service"
	"sabor/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager      repository.TransactionManager
	orderRepo      repository.OrderRepository
	catalogRepo    repository.CatalogRepository
	eventPublisher service.EventPublisher
	qrCodeService  service.QRCodeService
	now            func() time.Time
	logger         *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	OrderRepo      repository.OrderRepository
	CatalogRepo    repository.CatalogRepository
	EventPublisher service.EventPublisher
	QRCodeService  service.QRCodeService
	Logger         *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:      params.TxManager,
		orderRepo:      params.OrderRepo,
		catalogRepo:    params.CatalogRepo,
		eventPublisher: params.EventPublisher,
		qrCodeService:  params.QRCodeService,
		now:            time.Now,
		logger:         params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout turns the user's cart into a placed order. Every line is
// re-priced against the live catalog, the store must be open, and the order
// creation and cart clearing happen in one transaction. The order event is
// published after commit; a publish failure does not fail the checkout.
func (srv *orderService) Checkout(ctx context.Context, userID uuid.UUID, input *usecase.CheckoutInput) (*entity.Order, error) {
	srv.log(ctx).Info("Starting checkout", slog.Any("userID", userID))

	var placedOrder *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()
		orderRepo := repoFactory.NewOrderRepository()
		addressRepo := repoFactory.NewAddressRepository()

		lines, err := cartRepo.FindLinesByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to load cart lines")
		}
		if len(lines) == 0 {
			return errors.Wrap(domainerrors.ErrCartEmpty, "cart is empty")
		}

		store, err := srv.catalogRepo.FindStoreBySlug(ctx, lines[0].StoreSlug)
		if err != nil {
			return errors.Wrap(err, "failed to find cart store")
		}
		if !availability.Evaluate(store.Schedule, srv.now()).Open {
			return errors.Wrap(domainerrors.ErrStoreClosed, store.Slug)
		}

		address, err := srv.resolveDeliveryAddress(ctx, addressRepo, userID, input.AddressID)
		if err != nil {
			return err
		}

		orderLines, subtotal, err := srv.priceCartLines(store, lines)
		if err != nil {
			return err
		}

		deliveryFee := decimal.Zero
		if !store.FreeDelivery {
			deliveryFee = pricing.ParseDeliveryFee(store.DeliveryFee)
		}

		order := &entity.Order{
			UserID:      userID,
			StoreSlug:   store.Slug,
			StoreName:   store.Name,
			Status:      entity.OrderStatusPlaced,
			Subtotal:    subtotal,
			DeliveryFee: deliveryFee,
			GrandTotal:  subtotal.Add(deliveryFee),
			AddressText: address.Formatted(),
			Lines:       orderLines,
		}
		if err := orderRepo.CreateOrder(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		if err := cartRepo.DeleteLinesByUser(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to clear cart after checkout")
		}

		placedOrder = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute checkout transaction", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute checkout transaction")
	}

	srv.publishOrderEvent(ctx, placedOrder)

	srv.log(ctx).Info("Order placed", slog.Any("orderID", placedOrder.ID), slog.String("grandTotal", placedOrder.GrandTotal.StringFixed(2)))

	return placedOrder, nil
}

// resolveDeliveryAddress picks the delivery address for the order: the one
// the user named, after an ownership check, or their default address.
func (srv *orderService) resolveDeliveryAddress(ctx context.Context, addressRepo repository.AddressRepository, userID uuid.UUID, addressID *uuid.UUID) (*entity.Address, error) {
	if addressID == nil {
		address, err := addressRepo.FindDefaultAddressByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrAddressNotFound) {
				return nil, errors.Wrap(domainerrors.ErrNoDefaultAddress, "no default address configured")
			}

			return nil, errors.Wrap(err, "failed to find default address")
		}

		return address, nil
	}

	address, err := addressRepo.FindAddressByID(ctx, *addressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAddressNotFound, "address not found")
		}

		return nil, errors.Wrap(err, "failed to find address")
	}
	if address.UserID != userID {
		return nil, errors.Wrap(domainerrors.ErrAddressOwnershipViolation, "address belongs to another user")
	}

	return address, nil
}

// priceCartLines re-prices every cart line against the live catalog. Prices
// captured at add time are discarded; the catalog is the source of truth at
// checkout.
func (srv *orderService) priceCartLines(store *entity.Store, lines []*entity.CartLine) ([]entity.OrderLine, decimal.Decimal, error) {
	orderLines := make([]entity.OrderLine, 0, len(lines))
	subtotal := decimal.Zero

	for _, line := range lines {
		item := store.Item(line.ItemID)
		if item == nil {
			return nil, decimal.Zero, errors.Wrap(domainerrors.ErrItemNotFound, line.ItemID)
		}

		quote, err := pricing.Price(item, line.Selections, line.Quantity)
		if err != nil {
			return nil, decimal.Zero, errors.Wrap(domainerrors.ErrInvalidSelection, err.Error())
		}

		orderLines = append(orderLines, entity.OrderLine{
			ItemID:     item.ID,
			ItemName:   item.Name,
			UnitPrice:  quote.UnitPrice,
			Quantity:   line.Quantity,
			LineTotal:  quote.LineTotal,
			Selections: line.Selections.Clone(),
			Note:       line.Note,
		})
		subtotal = subtotal.Add(quote.LineTotal)
	}

	return orderLines, subtotal, nil
}

// publishOrderEvent hands the placed order to the event pipeline. Failures
// are logged and swallowed; the order is already committed.
func (srv *orderService) publishOrderEvent(ctx context.Context, order *entity.Order) {
	event := &service.OrderEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		OrderID:    order.ID.String(),
		UserID:     order.UserID.String(),
		StoreSlug:  order.StoreSlug,
		StoreName:  order.StoreName,
		GrandTotal: order.GrandTotal.StringFixed(2),
		LineCount:  len(order.Lines),
		PlacedAt:   order.PlacedAt,
	}

	if err := srv.eventPublisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event", slog.Any("orderID", order.ID), slog.Any("error", err))
	}
}

// ListOrders returns one page of the user's order history, newest first.
func (srv *orderService) ListOrders(ctx context.Context, userID uuid.UUID, page, perPage int) (*usecase.ListOrdersOutput, error) {
	page, perPage = normalizePage(page, perPage)

	total, err := srv.orderRepo.CountOrdersByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count orders")
	}

	orders, err := srv.orderRepo.FindOrdersByUser(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return &usecase.ListOrdersOutput{
		Orders:  orders,
		Total:   int(total),
		Page:    page,
		PerPage: perPage,
	}, nil
}

// GetOrder returns a single order after verifying it belongs to the user.
func (srv *orderService) GetOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.loadOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderQR renders the order's receipt QR code as a PNG image.
func (srv *orderService) GetOrderQR(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) ([]byte, error) {
	if _, err := srv.loadOwnedOrder(ctx, userID, orderID); err != nil {
		return nil, err
	}

	png, err := srv.qrCodeService.GenerateOrderQR(orderID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate order QR code", slog.Any("orderID", orderID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate order QR code")
	}

	return png, nil
}

func (srv *orderService) loadOwnedOrder(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to find order")
	}
	if order.UserID != userID {
		srv.log(ctx).Warn("Order ownership violation", slog.Any("userID", userID), slog.Any("orderID", orderID))

		return nil, errors.Wrap(domainerrors.ErrForbidden, "order belongs to another user")
	}

	return order, nil
}

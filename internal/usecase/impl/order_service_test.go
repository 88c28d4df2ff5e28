package impl

import (
	"context"
	"testing"
	"time"

	"sabor/internal/domain/entity"
	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOrderTestService wires an order service over in-memory fakes with the
// clock pinned to a moment the fixture store is open.
func newOrderTestService(factory *fakeRepoFactory, catalog *fakeCatalogRepo, publisher *fakeEventPublisher) *orderService {
	svc := NewOrderService(OrderServiceParams{
		TxManager:      &fakeTxManager{factory: factory},
		OrderRepo:      factory.orders,
		CatalogRepo:    catalog,
		EventPublisher: publisher,
		QRCodeService:  fakeQRCodeService{},
		Logger:         newDiscardLogger(),
	}).(*orderService)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}

	return svc
}

func seedCartLine(t *testing.T, factory *fakeRepoFactory, userID uuid.UUID, itemID string, quantity int, selections entity.AddOnSelection, note string) {
	t.Helper()

	line := &entity.CartLine{
		UserID:     userID,
		Key:        entity.LineKey(itemID, selections, note),
		StoreSlug:  "hamburgueria-do-ze",
		StoreName:  "Hamburgueria do Zé",
		ItemID:     itemID,
		Quantity:   quantity,
		Selections: selections,
		Note:       note,
	}
	require.NoError(t, factory.carts.CreateLine(context.Background(), line))
}

func seedAddress(t *testing.T, factory *fakeRepoFactory, userID uuid.UUID, isDefault bool) *entity.Address {
	t.Helper()

	address := &entity.Address{
		UserID:    userID,
		Rua:       "Rua das Flores",
		Numero:    "100",
		Bairro:    "Centro",
		Cidade:    "São Paulo",
		Estado:    "SP",
		CEP:       "01000-000",
		IsDefault: isDefault,
	}
	require.NoError(t, factory.addrs.CreateAddress(context.Background(), address))

	return address
}

func TestOrderService_Checkout(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	publisher := &fakeEventPublisher{}
	svc := newOrderTestService(factory, catalog, publisher)
	userID := uuid.New()

	seedAddress(t, factory, userID, true)
	seedCartLine(t, factory, userID, "item-burger", 2, burgerSelections(), "")
	seedCartLine(t, factory, userID, "item-fries", 1, nil, "")

	order, err := svc.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPlaced, order.Status)
	assert.Equal(t, "hamburgueria-do-ze", order.StoreSlug)
	require.Len(t, order.Lines, 2)
	// 2 x (28.90 + 5.00) + 14.00
	assert.Equal(t, "81.80", order.Subtotal.StringFixed(2))
	assert.Equal(t, "7.50", order.DeliveryFee.StringFixed(2))
	assert.Equal(t, "89.30", order.GrandTotal.StringFixed(2))
	assert.Contains(t, order.AddressText, "Rua das Flores, 100")
	assert.Contains(t, order.AddressText, "CEP 01000-000")

	// The cart is emptied in the same transaction.
	lines, err := factory.carts.FindLinesByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// The order event goes out after commit.
	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, order.ID.String(), event.OrderID)
	assert.Equal(t, "89.30", event.GrandTotal)
	assert.Equal(t, 2, event.LineCount)
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newOrderTestService(factory, catalog, &fakeEventPublisher{})

	_, err := svc.Checkout(context.Background(), uuid.New(), &usecase.CheckoutInput{})
	assert.ErrorIs(t, err, domainerrors.ErrCartEmpty)
}

func TestOrderService_Checkout_StoreClosed(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newOrderTestService(factory, catalog, &fakeEventPublisher{})
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC)
	}
	userID := uuid.New()

	seedAddress(t, factory, userID, true)
	seedCartLine(t, factory, userID, "item-fries", 1, nil, "")

	_, err := svc.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	assert.ErrorIs(t, err, domainerrors.ErrStoreClosed)
}

func TestOrderService_Checkout_NoDefaultAddress(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newOrderTestService(factory, catalog, &fakeEventPublisher{})
	userID := uuid.New()

	seedCartLine(t, factory, userID, "item-fries", 1, nil, "")

	_, err := svc.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	assert.ErrorIs(t, err, domainerrors.ErrNoDefaultAddress)
}

func TestOrderService_Checkout_ForeignAddress(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newOrderTestService(factory, catalog, &fakeEventPublisher{})
	userID := uuid.New()

	otherAddress := seedAddress(t, factory, uuid.New(), true)
	seedCartLine(t, factory, userID, "item-fries", 1, nil, "")

	_, err := svc.Checkout(context.Background(), userID, &usecase.CheckoutInput{AddressID: &otherAddress.ID})
	assert.ErrorIs(t, err, domainerrors.ErrAddressOwnershipViolation)
}

func TestOrderService_Checkout_FreeDelivery(t *testing.T) {
	store := newBurgerStore()
	store.FreeDelivery = true
	store.DeliveryFee = "Grátis"

	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{store}}
	svc := newOrderTestService(factory, catalog, &fakeEventPublisher{})
	userID := uuid.New()

	seedAddress(t, factory, userID, true)
	seedCartLine(t, factory, userID, "item-fries", 1, nil, "")

	order, err := svc.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.NoError(t, err)
	assert.True(t, order.DeliveryFee.IsZero())
	assert.Equal(t, order.Subtotal.StringFixed(2), order.GrandTotal.StringFixed(2))
}

func TestOrderService_Checkout_PublishFailureDoesNotFail(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	publisher := &fakeEventPublisher{err: assert.AnError}
	svc := newOrderTestService(factory, catalog, publisher)
	userID := uuid.New()

	seedAddress(t, factory, userID, true)
	seedCartLine(t, factory, userID, "item-fries", 1, nil, "")

	order, err := svc.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, order.ID)
}

func TestOrderService_ListOrders(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newOrderTestService(factory, catalog, &fakeEventPublisher{})
	userID := uuid.New()
	seedAddress(t, factory, userID, true)

	for range 3 {
		seedCartLine(t, factory, userID, "item-fries", 1, nil, "")
		_, err := svc.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
		require.NoError(t, err)
	}

	output, err := svc.ListOrders(context.Background(), userID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, output.Total)
	assert.Len(t, output.Orders, 2)
	// Newest first.
	assert.True(t, output.Orders[0].PlacedAt.After(output.Orders[1].PlacedAt))

	output, err = svc.ListOrders(context.Background(), userID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, output.Orders, 1)
	assert.Equal(t, 2, output.Page)
}

func TestOrderService_GetOrder_Ownership(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newOrderTestService(factory, catalog, &fakeEventPublisher{})
	userID := uuid.New()

	seedAddress(t, factory, userID, true)
	seedCartLine(t, factory, userID, "item-fries", 1, nil, "")
	placed, err := svc.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.NoError(t, err)

	found, err := svc.GetOrder(context.Background(), userID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, found.ID)

	_, err = svc.GetOrder(context.Background(), uuid.New(), placed.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = svc.GetOrder(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderService_GetOrderQR(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newOrderTestService(factory, catalog, &fakeEventPublisher{})
	userID := uuid.New()

	seedAddress(t, factory, userID, true)
	seedCartLine(t, factory, userID, "item-fries", 1, nil, "")
	placed, err := svc.Checkout(context.Background(), userID, &usecase.CheckoutInput{})
	require.NoError(t, err)

	png, err := svc.GetOrderQR(context.Background(), userID, placed.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	_, err = svc.GetOrderQR(context.Background(), uuid.New(), placed.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

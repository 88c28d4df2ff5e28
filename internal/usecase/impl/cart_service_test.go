package impl

import (
	"context"
	"strings"
	"testing"

	"sabor/internal/domain/entity"
	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartTestService(factory *fakeRepoFactory, catalog *fakeCatalogRepo) usecase.CartUsecase {
	return NewCartService(CartServiceParams{
		TxManager:   &fakeTxManager{factory: factory},
		CartRepo:    factory.carts,
		CatalogRepo: catalog,
		Logger:      newDiscardLogger(),
	})
}

func addBurger(t *testing.T, svc usecase.CartUsecase, userID uuid.UUID, quantity int, note string) *usecase.CartOutput {
	t.Helper()

	cart, err := svc.AddItem(context.Background(), userID, &usecase.AddCartItemInput{
		StoreSlug:  "hamburgueria-do-ze",
		ItemID:     "item-burger",
		Quantity:   quantity,
		Selections: burgerSelections(),
		Note:       note,
	})
	require.NoError(t, err)

	return cart
}

func TestCartService_AddItem(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	cart := addBurger(t, svc, userID, 2, "")

	require.Len(t, cart.Lines, 1)
	line := cart.Lines[0]
	assert.Equal(t, "hamburgueria-do-ze", cart.StoreSlug)
	assert.Equal(t, "Hamburgueria do Zé", cart.StoreName)
	assert.Equal(t, "item-burger", line.ItemID)
	// 28.90 base + 5.00 bacon
	assert.Equal(t, "33.9", line.UnitPrice.String())
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "67.8", cart.Subtotal.String())
	// R$ 7,50 store fee on top of the subtotal.
	assert.Equal(t, "7.5", cart.DeliveryFee.String())
	assert.Equal(t, "75.3", cart.GrandTotal.String())
	assert.Equal(t, 2, cart.ItemCount)
}

func TestCartService_GetCart_FreeDeliveryStore(t *testing.T) {
	store := newBurgerStore()
	store.DeliveryFee = "Grátis"
	store.FreeDelivery = true

	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{store}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	cart := addBurger(t, svc, userID, 1, "")

	assert.True(t, cart.DeliveryFee.IsZero())
	assert.True(t, cart.GrandTotal.Equal(cart.Subtotal))
}

func TestCartService_AddItem_MergesSameConfiguration(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	addBurger(t, svc, userID, 1, "")
	cart := addBurger(t, svc, userID, 2, "")

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, 3, cart.ItemCount)
}

func TestCartService_AddItem_NoteCreatesDistinctLine(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	addBurger(t, svc, userID, 1, "")
	cart := addBurger(t, svc, userID, 1, "sem cebola")

	require.Len(t, cart.Lines, 2)
	assert.NotEqual(t, cart.Lines[0].Key, cart.Lines[1].Key)
}

func TestCartService_AddItem_RejectsSecondStore(t *testing.T) {
	secondStore := newBurgerStore()
	secondStore.ID = "store-002"
	secondStore.Slug = "pizzaria-da-vila"
	secondStore.Name = "Pizzaria da Vila"

	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore(), secondStore}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	addBurger(t, svc, userID, 1, "")

	_, err := svc.AddItem(context.Background(), userID, &usecase.AddCartItemInput{
		StoreSlug:  "pizzaria-da-vila",
		ItemID:     "item-fries",
		Quantity:   1,
		Selections: nil,
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestCartService_AddItem_Rejections(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	tests := []struct {
		name     string
		input    *usecase.AddCartItemInput
		expected error
	}{
		{
			name: "unknown store",
			input: &usecase.AddCartItemInput{
				StoreSlug: "nao-existe",
				ItemID:    "item-burger",
				Quantity:  1,
			},
			expected: domainerrors.ErrStoreNotFound,
		},
		{
			name: "unknown item",
			input: &usecase.AddCartItemInput{
				StoreSlug: "hamburgueria-do-ze",
				ItemID:    "item-sushi",
				Quantity:  1,
			},
			expected: domainerrors.ErrItemNotFound,
		},
		{
			name: "zero quantity",
			input: &usecase.AddCartItemInput{
				StoreSlug:  "hamburgueria-do-ze",
				ItemID:     "item-burger",
				Quantity:   0,
				Selections: burgerSelections(),
			},
			expected: domainerrors.ErrInvalidQuantity,
		},
		{
			name: "missing required group",
			input: &usecase.AddCartItemInput{
				StoreSlug: "hamburgueria-do-ze",
				ItemID:    "item-burger",
				Quantity:  1,
			},
			expected: domainerrors.ErrInvalidSelection,
		},
		{
			name: "note too long",
			input: &usecase.AddCartItemInput{
				StoreSlug:  "hamburgueria-do-ze",
				ItemID:     "item-burger",
				Quantity:   1,
				Selections: burgerSelections(),
				Note:       strings.Repeat("a", entity.MaxNoteLength+1),
			},
			expected: domainerrors.ErrNoteTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(context.Background(), userID, tt.input)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestCartService_UpdateLine_Quantity(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	cart := addBurger(t, svc, userID, 1, "")
	key := cart.Lines[0].Key

	quantity := 5
	updated, err := svc.UpdateLine(context.Background(), userID, key, &usecase.UpdateCartLineInput{Quantity: &quantity})
	require.NoError(t, err)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, 5, updated.Lines[0].Quantity)
	assert.Equal(t, key, updated.Lines[0].Key)
}

func TestCartService_UpdateLine_NoteChangesKey(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	cart := addBurger(t, svc, userID, 1, "")
	oldKey := cart.Lines[0].Key

	note := "sem cebola"
	updated, err := svc.UpdateLine(context.Background(), userID, oldKey, &usecase.UpdateCartLineInput{Note: &note})
	require.NoError(t, err)
	require.Len(t, updated.Lines, 1)
	assert.NotEqual(t, oldKey, updated.Lines[0].Key)
	assert.Equal(t, note, updated.Lines[0].Note)

	// The old key no longer addresses the line.
	quantity := 2
	_, err = svc.UpdateLine(context.Background(), userID, oldKey, &usecase.UpdateCartLineInput{Quantity: &quantity})
	assert.ErrorIs(t, err, domainerrors.ErrCartLineNotFound)
}

func TestCartService_UpdateLine_ZeroQuantityRemoves(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	cart := addBurger(t, svc, userID, 2, "")
	key := cart.Lines[0].Key

	zero := 0
	updated, err := svc.UpdateLine(context.Background(), userID, key, &usecase.UpdateCartLineInput{Quantity: &zero})
	require.NoError(t, err)
	assert.Empty(t, updated.Lines)
	assert.Equal(t, 0, updated.ItemCount)

	// Negative quantities remove as well, and a removed line stays gone.
	negative := -1
	_, err = svc.UpdateLine(context.Background(), userID, key, &usecase.UpdateCartLineInput{Quantity: &negative})
	assert.ErrorIs(t, err, domainerrors.ErrCartLineNotFound)
}

func TestCartService_UpdateLine_Rejections(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	_, err := svc.UpdateLine(context.Background(), userID, "missing-key", &usecase.UpdateCartLineInput{})
	assert.ErrorIs(t, err, domainerrors.ErrCartLineNotFound)

	longNote := strings.Repeat("x", entity.MaxNoteLength+1)
	_, err = svc.UpdateLine(context.Background(), userID, "missing-key", &usecase.UpdateCartLineInput{Note: &longNote})
	assert.ErrorIs(t, err, domainerrors.ErrNoteTooLong)
}

func TestCartService_RemoveLine(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	cart := addBurger(t, svc, userID, 1, "")

	emptied, err := svc.RemoveLine(context.Background(), userID, cart.Lines[0].Key)
	require.NoError(t, err)
	assert.Empty(t, emptied.Lines)
	assert.Equal(t, 0, emptied.ItemCount)

	_, err = svc.RemoveLine(context.Background(), userID, cart.Lines[0].Key)
	assert.ErrorIs(t, err, domainerrors.ErrCartLineNotFound)
}

func TestCartService_ClearCart(t *testing.T) {
	factory := newFakeRepoFactory()
	catalog := &fakeCatalogRepo{stores: []*entity.Store{newBurgerStore()}}
	svc := newCartTestService(factory, catalog)
	userID := uuid.New()

	addBurger(t, svc, userID, 1, "")
	addBurger(t, svc, userID, 1, "sem cebola")

	require.NoError(t, svc.ClearCart(context.Background(), userID))

	cart, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.Subtotal.IsZero())
}

func TestCartService_GetCart_Empty(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(factory, &fakeCatalogRepo{})

	cart, err := svc.GetCart(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Empty(t, cart.StoreSlug)
	assert.True(t, cart.Subtotal.IsZero())
	assert.True(t, cart.DeliveryFee.IsZero())
	assert.True(t, cart.GrandTotal.IsZero())
}

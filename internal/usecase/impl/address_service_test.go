package impl

import (
	"context"
	"testing"

	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAddressTestService(factory *fakeRepoFactory) usecase.AddressUsecase {
	return NewAddressService(AddressServiceParams{
		TxManager:   &fakeTxManager{factory: factory},
		AddressRepo: factory.addrs,
		Logger:      newDiscardLogger(),
	})
}

func newAddressInput(rua string) *usecase.AddressInput {
	return &usecase.AddressInput{
		Rua:    rua,
		Numero: "100",
		Bairro: "Centro",
		Cidade: "São Paulo",
		Estado: "SP",
		CEP:    "01000-000",
	}
}

func TestAddressService_CreateAddress_FirstBecomesDefault(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newAddressTestService(factory)
	userID := uuid.New()

	first, err := svc.CreateAddress(context.Background(), userID, newAddressInput("Rua A"))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.CreateAddress(context.Background(), userID, newAddressInput("Rua B"))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestAddressService_CreateAddress_NewDefaultDemotesPrevious(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newAddressTestService(factory)
	userID := uuid.New()

	first, err := svc.CreateAddress(context.Background(), userID, newAddressInput("Rua A"))
	require.NoError(t, err)

	input := newAddressInput("Rua B")
	input.IsDefault = true
	second, err := svc.CreateAddress(context.Background(), userID, input)
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	reloaded, err := factory.addrs.FindAddressByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
}

func TestAddressService_ListAddresses_DefaultFirst(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newAddressTestService(factory)
	userID := uuid.New()

	_, err := svc.CreateAddress(context.Background(), userID, newAddressInput("Rua A"))
	require.NoError(t, err)
	_, err = svc.CreateAddress(context.Background(), userID, newAddressInput("Rua B"))
	require.NoError(t, err)

	input := newAddressInput("Rua C")
	input.IsDefault = true
	_, err = svc.CreateAddress(context.Background(), userID, input)
	require.NoError(t, err)

	addresses, err := svc.ListAddresses(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, addresses, 3)
	assert.Equal(t, "Rua C", addresses[0].Rua)
	assert.True(t, addresses[0].IsDefault)
}

func TestAddressService_UpdateAddress(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newAddressTestService(factory)
	userID := uuid.New()

	created, err := svc.CreateAddress(context.Background(), userID, newAddressInput("Rua A"))
	require.NoError(t, err)

	updated, err := svc.UpdateAddress(context.Background(), userID, created.ID, newAddressInput("Rua Nova"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Rua Nova", updated.Rua)
	// A default address stays default through an update.
	assert.True(t, updated.IsDefault)
}

func TestAddressService_UpdateAddress_Ownership(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newAddressTestService(factory)

	owner := uuid.New()
	created, err := svc.CreateAddress(context.Background(), owner, newAddressInput("Rua A"))
	require.NoError(t, err)

	_, err = svc.UpdateAddress(context.Background(), uuid.New(), created.ID, newAddressInput("Rua B"))
	assert.ErrorIs(t, err, domainerrors.ErrAddressOwnershipViolation)

	_, err = svc.UpdateAddress(context.Background(), owner, uuid.New(), newAddressInput("Rua B"))
	assert.ErrorIs(t, err, domainerrors.ErrAddressNotFound)
}

func TestAddressService_DeleteAddress_PromotesOldestRemaining(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newAddressTestService(factory)
	userID := uuid.New()

	first, err := svc.CreateAddress(context.Background(), userID, newAddressInput("Rua A"))
	require.NoError(t, err)
	second, err := svc.CreateAddress(context.Background(), userID, newAddressInput("Rua B"))
	require.NoError(t, err)
	_, err = svc.CreateAddress(context.Background(), userID, newAddressInput("Rua C"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAddress(context.Background(), userID, first.ID))

	reloaded, err := factory.addrs.FindAddressByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDefault)
}

func TestAddressService_DeleteAddress_NonDefaultLeavesDefaultAlone(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newAddressTestService(factory)
	userID := uuid.New()

	first, err := svc.CreateAddress(context.Background(), userID, newAddressInput("Rua A"))
	require.NoError(t, err)
	second, err := svc.CreateAddress(context.Background(), userID, newAddressInput("Rua B"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAddress(context.Background(), userID, second.ID))

	reloaded, err := factory.addrs.FindAddressByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDefault)
}

func TestAddressService_SetDefaultAddress(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newAddressTestService(factory)
	userID := uuid.New()

	first, err := svc.CreateAddress(context.Background(), userID, newAddressInput("Rua A"))
	require.NoError(t, err)
	second, err := svc.CreateAddress(context.Background(), userID, newAddressInput("Rua B"))
	require.NoError(t, err)

	promoted, err := svc.SetDefaultAddress(context.Background(), userID, second.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsDefault)

	demoted, err := factory.addrs.FindAddressByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsDefault)

	_, err = svc.SetDefaultAddress(context.Background(), uuid.New(), second.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAddressOwnershipViolation)
}

package impl

import (
	"context"
	"log/slog"

	deliverycontext "sabor/internal/delivery/context"
	"sabor/internal/domain/entity"
	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/domain/repository"
	"sabor/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// addressService implements the AddressUsecase interface.
type addressService struct {
	txManager   repository.TransactionManager
	addressRepo repository.AddressRepository
	logger      *slog.Logger
}

// AddressServiceParams holds dependencies for AddressService, injected by Fx.
type AddressServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AddressRepo repository.AddressRepository
	Logger      *slog.Logger
}

// NewAddressService is the constructor for addressService.
func NewAddressService(params AddressServiceParams) usecase.AddressUsecase {
	return &addressService{
		txManager:   params.TxManager,
		addressRepo: params.AddressRepo,
		logger:      params.Logger,
	}
}

func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateAddress persists a new delivery address for the user. The first
// address a user creates always becomes their default.
func (srv *addressService) CreateAddress(ctx context.Context, userID uuid.UUID, input *usecase.AddressInput) (*entity.Address, error) {
	srv.log(ctx).Debug("Creating address", slog.Any("userID", userID))

	var created *entity.Address
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		count, err := addressRepo.CountAddressesByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to count addresses")
		}

		address := addressFromInput(userID, input)
		if count == 0 {
			address.IsDefault = true
		}

		if address.IsDefault {
			if err := addressRepo.ClearDefaultByUser(ctx, userID); err != nil {
				return errors.Wrap(err, "failed to clear previous default address")
			}
		}

		if err := addressRepo.CreateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to create address")
		}

		created = address

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute address creation transaction", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute address creation transaction")
	}

	return created, nil
}

// ListAddresses returns the user's addresses, default first.
func (srv *addressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	addresses, err := srv.addressRepo.FindAddressesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list addresses")
	}

	return addresses, nil
}

// UpdateAddress replaces the fields of an address owned by the user.
func (srv *addressService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input *usecase.AddressInput) (*entity.Address, error) {
	srv.log(ctx).Debug("Updating address", slog.Any("userID", userID), slog.Any("addressID", addressID))

	var updated *entity.Address
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		address, err := srv.loadOwnedAddress(ctx, addressRepo, userID, addressID)
		if err != nil {
			return err
		}

		replacement := addressFromInput(userID, input)
		replacement.ID = address.ID
		replacement.IsDefault = address.IsDefault || input.IsDefault

		if !address.IsDefault && input.IsDefault {
			if err := addressRepo.ClearDefaultByUser(ctx, userID); err != nil {
				return errors.Wrap(err, "failed to clear previous default address")
			}
		}

		if err := addressRepo.UpdateAddress(ctx, replacement); err != nil {
			return errors.Wrap(err, "failed to update address")
		}

		updated = replacement

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute address update transaction", slog.Any("addressID", addressID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute address update transaction")
	}

	return updated, nil
}

// DeleteAddress removes an address owned by the user. When the default
// address is deleted, the oldest remaining address is promoted.
func (srv *addressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	srv.log(ctx).Debug("Deleting address", slog.Any("userID", userID), slog.Any("addressID", addressID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		address, err := srv.loadOwnedAddress(ctx, addressRepo, userID, addressID)
		if err != nil {
			return err
		}

		if err := addressRepo.DeleteAddress(ctx, address.ID); err != nil {
			return errors.Wrap(err, "failed to delete address")
		}

		if !address.IsDefault {
			return nil
		}

		remaining, err := addressRepo.FindAddressesByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list remaining addresses")
		}
		if len(remaining) == 0 {
			return nil
		}

		promoted := remaining[len(remaining)-1]
		for _, candidate := range remaining {
			if candidate.CreatedAt.Before(promoted.CreatedAt) {
				promoted = candidate
			}
		}
		promoted.IsDefault = true

		if err := addressRepo.UpdateAddress(ctx, promoted); err != nil {
			return errors.Wrap(err, "failed to promote replacement default address")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute address deletion transaction", slog.Any("addressID", addressID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute address deletion transaction")
	}

	return nil
}

// SetDefaultAddress promotes one of the user's addresses to default,
// demoting any previous default in the same transaction.
func (srv *addressService) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (*entity.Address, error) {
	srv.log(ctx).Debug("Setting default address", slog.Any("userID", userID), slog.Any("addressID", addressID))

	var promoted *entity.Address
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		address, err := srv.loadOwnedAddress(ctx, addressRepo, userID, addressID)
		if err != nil {
			return err
		}

		if err := addressRepo.ClearDefaultByUser(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to clear previous default address")
		}

		address.IsDefault = true
		if err := addressRepo.UpdateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to set default address")
		}

		promoted = address

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute default address transaction", slog.Any("addressID", addressID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute default address transaction")
	}

	return promoted, nil
}

// loadOwnedAddress fetches an address and verifies it belongs to the user.
func (srv *addressService) loadOwnedAddress(ctx context.Context, addressRepo repository.AddressRepository, userID, addressID uuid.UUID) (*entity.Address, error) {
	address, err := addressRepo.FindAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAddressNotFound, "address not found")
		}

		return nil, errors.Wrap(err, "failed to find address")
	}
	if address.UserID != userID {
		srv.log(ctx).Warn("Address ownership violation", slog.Any("userID", userID), slog.Any("addressID", addressID))

		return nil, errors.Wrap(domainerrors.ErrAddressOwnershipViolation, "address belongs to another user")
	}

	return address, nil
}

func addressFromInput(userID uuid.UUID, input *usecase.AddressInput) *entity.Address {
	return &entity.Address{
		UserID:      userID,
		Rua:         input.Rua,
		Numero:      input.Numero,
		Complemento: input.Complemento,
		Bairro:      input.Bairro,
		Cidade:      input.Cidade,
		Estado:      input.Estado,
		CEP:         input.CEP,
		Referencia:  input.Referencia,
		IsDefault:   input.IsDefault,
	}
}

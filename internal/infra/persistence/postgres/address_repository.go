// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"sabor/internal/domain/entity"
	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/domain/repository"
	"sabor/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// addressRepository implements the domain.AddressRepository interface using GORM.
type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository is the constructor for addressRepository.
func NewAddressRepository(db *gorm.DB) repository.AddressRepository {
	return &addressRepository{db: db}
}

// CreateAddress persists a new address for a user.
func (repo *addressRepository) CreateAddress(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	if err := repo.db.WithContext(ctx).Create(addressM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("address owner does not exist")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required address fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create address")
	}

	address.ID = addressM.ID
	address.CreatedAt = addressM.CreatedAt
	address.UpdatedAt = addressM.UpdatedAt

	return nil
}

// FindAddressByID retrieves an address by its unique ID.
func (repo *addressRepository) FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	var addressM model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&addressM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.Wrap(err, "failed to find address by id")
	}

	return toAddressDomain(&addressM), nil
}

// FindAddressesByUser retrieves all addresses for a specific user, default first.
func (repo *addressRepository) FindAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	var addressMs []model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addressMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find addresses by user")
	}

	addresses := make([]*entity.Address, 0, len(addressMs))
	for i := range addressMs {
		addresses = append(addresses, toAddressDomain(&addressMs[i]))
	}

	return addresses, nil
}

// FindDefaultAddressByUser retrieves the default address for a specific user.
func (repo *addressRepository) FindDefaultAddressByUser(ctx context.Context, userID uuid.UUID) (*entity.Address, error) {
	var addressM model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&addressM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.Wrap(err, "failed to find default address")
	}

	return toAddressDomain(&addressM), nil
}

// UpdateAddress updates an existing address record.
func (repo *addressRepository) UpdateAddress(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	result := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("id = ?", address.ID).
		Updates(map[string]any{
			"rua":         addressM.Rua,
			"numero":      addressM.Numero,
			"complemento": addressM.Complemento,
			"bairro":      addressM.Bairro,
			"cidade":      addressM.Cidade,
			"estado":      addressM.Estado,
			"cep":         addressM.CEP,
			"referencia":  addressM.Referencia,
			"is_default":  addressM.IsDefault,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// ClearDefaultByUser unsets the default flag on all of a user's addresses.
func (repo *addressRepository) ClearDefaultByUser(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear default address")
	}

	return nil
}

// DeleteAddress removes an address by its ID.
func (repo *addressRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.AddressModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// CountAddressesByUser returns the total count of addresses for a specific user.
func (repo *addressRepository) CountAddressesByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count addresses")
	}

	return count, nil
}

// toAddressDomain converts a GORM AddressModel to a domain Address entity.
func toAddressDomain(data *model.AddressModel) *entity.Address {
	if data == nil {
		return nil
	}

	return &entity.Address{
		ID:          data.ID,
		UserID:      data.UserID,
		Rua:         data.Rua,
		Numero:      data.Numero,
		Complemento: data.Complemento,
		Bairro:      data.Bairro,
		Cidade:      data.Cidade,
		Estado:      data.Estado,
		CEP:         data.CEP,
		Referencia:  data.Referencia,
		IsDefault:   data.IsDefault,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromAddressDomain converts a domain Address entity to a GORM AddressModel.
func fromAddressDomain(data *entity.Address) *model.AddressModel {
	if data == nil {
		return nil
	}

	return &model.AddressModel{
		ID:          data.ID,
		UserID:      data.UserID,
		Rua:         data.Rua,
		Numero:      data.Numero,
		Complemento: data.Complemento,
		Bairro:      data.Bairro,
		Cidade:      data.Cidade,
		Estado:      data.Estado,
		CEP:         data.CEP,
		Referencia:  data.Referencia,
		IsDefault:   data.IsDefault,
	}
}

// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"sabor/internal/domain/entity"

	"github.com/google/uuid"
)

// AddressInput defines the data required to create or replace an address.
type AddressInput struct {
	Rua         string
	Numero      string
	Complemento string
	Bairro      string
	Cidade      string
	Estado      string
	CEP         string
	Referencia  string
	IsDefault   bool
}

// AddressUsecase defines the interface for delivery address management.
// Every operation is scoped to the authenticated user; accessing another
// user's address is an ownership violation.
type AddressUsecase interface {
	CreateAddress(ctx context.Context, userID uuid.UUID, input *AddressInput) (*entity.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input *AddressInput) (*entity.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (*entity.Address, error)
}

// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"sabor/internal/domain/entity"
	"sabor/internal/errors"

	"github.com/google/uuid"
)

// ErrAddressNotFound is returned when an address is not found.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepository defines the interface for address-related database operations.
type AddressRepository interface {
	// CreateAddress persists a new address for a user.
	CreateAddress(ctx context.Context, address *entity.Address) error

	// FindAddressByID retrieves an address by its unique ID.
	FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error)

	// FindAddressesByUser retrieves all addresses for a specific user, default address first.
	FindAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)

	// FindDefaultAddressByUser retrieves the default address for a specific user.
	// Returns ErrAddressNotFound if no default address exists.
	FindDefaultAddressByUser(ctx context.Context, userID uuid.UUID) (*entity.Address, error)

	// UpdateAddress updates an existing address record.
	UpdateAddress(ctx context.Context, address *entity.Address) error

	// ClearDefaultByUser unsets the default flag on all of a user's addresses.
	// Used before promoting another address to default.
	ClearDefaultByUser(ctx context.Context, userID uuid.UUID) error

	// DeleteAddress removes an address by its ID.
	DeleteAddress(ctx context.Context, id uuid.UUID) error

	// CountAddressesByUser returns the total count of addresses for a specific user.
	CountAddressesByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"sabor/internal/domain/entity"
	"sabor/internal/errors"

	"github.com/google/uuid"
)

// ErrCartLineNotFound is returned when a cart line is not found.
var ErrCartLineNotFound = errors.New("cart line not found")

// CartRepository defines the interface for cart persistence. A user's cart
// is the set of their cart lines; there is no separate cart record.
type CartRepository interface {
	// CreateLine persists a new cart line.
	CreateLine(ctx context.Context, line *entity.CartLine) error

	// FindLineByKey retrieves a user's cart line by its deterministic key.
	FindLineByKey(ctx context.Context, userID uuid.UUID, key string) (*entity.CartLine, error)

	// FindLinesByUser retrieves all cart lines for a user, oldest first.
	FindLinesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartLine, error)

	// UpdateLine updates an existing cart line, addressed by its ID. The
	// line key is part of the update so note changes can re-key the line.
	UpdateLine(ctx context.Context, line *entity.CartLine) error

	// DeleteLineByKey removes a single line from a user's cart.
	DeleteLineByKey(ctx context.Context, userID uuid.UUID, key string) error

	// DeleteLinesByUser empties a user's cart.
	DeleteLinesByUser(ctx context.Context, userID uuid.UUID) error
}

// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"sabor/internal/domain/entity"
	"sabor/internal/errors"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	// CreateOrder persists a new order together with its lines.
	CreateOrder(ctx context.Context, order *entity.Order) error

	// FindOrderByID retrieves an order with its lines by its unique ID.
	FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindOrdersByUser retrieves a page of a user's orders, newest first.
	FindOrdersByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error)

	// UpdateOrderStatus advances the lifecycle state of an order.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error

	// CountOrdersByUser returns the total number of orders a user has placed.
	CountOrdersByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

package usecase

import (
	"context"

	"github.com/google/uuid"

	"sabor/internal/domain/entity"
)

// CheckoutInput selects the delivery address for the order.
// A nil AddressID means the user's default address.
type CheckoutInput struct {
	AddressID *uuid.UUID
}

// ListOrdersOutput is one page of the user's order history,
// most recent first.
type ListOrdersOutput struct {
	Orders  []*entity.Order
	Total   int
	Page    int
	PerPage int
}

// OrderUsecase defines checkout and order history operations.
type OrderUsecase interface {
	Checkout(ctx context.Context, userID uuid.UUID, input *CheckoutInput) (*entity.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page, perPage int) (*ListOrdersOutput, error)
	GetOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*entity.Order, error)
	GetOrderQR(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) ([]byte, error)
}

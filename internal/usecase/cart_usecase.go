package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sabor/internal/domain/entity"
)

// AddCartItemInput describes one configured item to be added to the cart.
type AddCartItemInput struct {
	StoreSlug  string
	ItemID     string
	Quantity   int
	Selections entity.AddOnSelection
	Note       string
}

// UpdateCartLineInput carries the mutable fields of a cart line.
// Nil fields are left unchanged; a quantity of zero or below removes
// the line.
type UpdateCartLineInput struct {
	Quantity *int
	Note     *string
}

// CartOutput is the user's cart with its running totals. The delivery fee
// comes from the store the cart belongs to; the grand total is the subtotal
// plus that fee.
type CartOutput struct {
	Lines       []*entity.CartLine
	StoreSlug   string
	StoreName   string
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	GrandTotal  decimal.Decimal
	ItemCount   int
}

// CartUsecase defines the cart operations.
type CartUsecase interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartOutput, error)
	AddItem(ctx context.Context, userID uuid.UUID, input *AddCartItemInput) (*CartOutput, error)
	UpdateLine(ctx context.Context, userID uuid.UUID, lineKey string, input *UpdateCartLineInput) (*CartOutput, error)
	RemoveLine(ctx context.Context, userID uuid.UUID, lineKey string) (*CartOutput, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

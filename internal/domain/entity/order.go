// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

// Order lifecycle states. An order starts as Placed and is advanced to
// Confirmed by the order worker once the store acknowledges it.
const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// Order is a placed, immutable snapshot of a checked-out cart.
type Order struct {
	ID          uuid.UUID       // The Global Unique Identifier (GUID) for the order.
	UserID      uuid.UUID       // The user that placed the order.
	StoreSlug   string          // Slug of the store the order was placed with.
	StoreName   string          // Display name of that store at placement time.
	Status      OrderStatus     // Current lifecycle state.
	Subtotal    decimal.Decimal // Sum of all line totals.
	DeliveryFee decimal.Decimal // Delivery fee charged, zero for free delivery.
	GrandTotal  decimal.Decimal // Subtotal plus delivery fee.
	AddressText string          // Formatted delivery address captured at placement time.
	Lines       []OrderLine
	PlacedAt    time.Time // Timestamp of when the order was placed.
	UpdatedAt   time.Time // Timestamp of the last status change.
}

// OrderLine is one priced line of an order, frozen at placement time.
type OrderLine struct {
	ItemID     string          // Catalog ID of the menu item.
	ItemName   string          // Display name of the item at placement time.
	UnitPrice  decimal.Decimal // Price of one unit including selected add-ons.
	Quantity   int             // Number of units.
	LineTotal  decimal.Decimal // UnitPrice times Quantity.
	Selections AddOnSelection  // The add-on configuration the line was priced with.
	Note       string          // Preparation note carried over from the cart line.
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderModel mirrors the 'orders' table. Lines are stored inline as JSONB:
// they are an immutable snapshot read back as a unit, never queried row-wise.
type OrderModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_on_user"`
	StoreSlug   string          `gorm:"type:varchar(100);not null"`
	StoreName   string          `gorm:"type:varchar(255);not null"`
	Status      string          `gorm:"type:varchar(20);not null"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	GrandTotal  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	AddressText string          `gorm:"type:text;not null"`
	Lines       datatypes.JSON  `gorm:"type:jsonb;not null"`
	PlacedAt    time.Time       `gorm:"not null;index:idx_orders_on_user"`
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

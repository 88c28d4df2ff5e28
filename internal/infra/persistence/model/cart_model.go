package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CartLineModel mirrors the 'cart_lines' table. One row per configured item;
// the line key is unique per user so identical configurations merge.
type CartLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_lines_user_key"`
	LineKey    string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_lines_user_key"`
	StoreSlug  string          `gorm:"type:varchar(100);not null"`
	StoreName  string          `gorm:"type:varchar(255);not null"`
	ItemID     string          `gorm:"type:varchar(100);not null"`
	ItemName   string          `gorm:"type:varchar(255);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity   int             `gorm:"not null"`
	Selections datatypes.JSON  `gorm:"type:jsonb"`
	Note       string          `gorm:"type:varchar(255)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (CartLineModel) TableName() string {
	return "cart_lines"
}

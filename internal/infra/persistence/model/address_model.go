package model

import (
	"time"

	"github.com/google/uuid"
)

// AddressModel is the GORM-specific struct for the 'addresses' table.
// Columns follow the Brazilian postal format used throughout the app.
type AddressModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_addresses_on_user"`
	Rua         string    `gorm:"type:varchar(255);not null"`
	Numero      string    `gorm:"type:varchar(20);not null"`
	Complemento string    `gorm:"type:varchar(100)"`
	Bairro      string    `gorm:"type:varchar(100);not null"`
	Cidade      string    `gorm:"type:varchar(100);not null"`
	Estado      string    `gorm:"type:char(2);not null"`
	CEP         string    `gorm:"column:cep;type:varchar(9);not null"`
	Referencia  string    `gorm:"type:varchar(255)"`
	IsDefault   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (AddressModel) TableName() string {
	return "addresses"
}

package entity

import (
	"time"

	"github.com/Bochino693/Smart-Adega/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is the header of a finalized sale. It is immutable once settled; the
// only permitted mutation is the pending-to-settled transition, which updates
// method, fee and net exactly once.
type Sale struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID       *uuid.UUID         `gorm:"type:uuid;index" json:"user_id,omitempty"`
	CustomerName *string            `gorm:"size:90" json:"customer_name,omitempty"`
	Method       enum.PaymentMethod `gorm:"size:20;not null;index" json:"method"`
	Gross        decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"gross"`
	Discount     decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"discount"`
	Fee          decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"fee"`
	Net          decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"net"`
	SoldAt       time.Time          `gorm:"not null;index" json:"sold_at"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`

	// Relationships
	User  *User      `gorm:"foreignKey:UserID" json:"-"`
	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one line of a sale: a product quantity at a unit price with its
// proportional share of the sale discount. Lines are never mutated.
type SaleItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

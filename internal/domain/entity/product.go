package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item referenced by batches and sale lines
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Code          *string         `gorm:"size:100;uniqueIndex" json:"code,omitempty"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	SalePrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"sale_price"`
	SupplierPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"supplier_price"`
	PotentialGain decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"potential_gain"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// RecalcPotentialGain refreshes the derived margin; called on every price change
func (p *Product) RecalcPotentialGain() {
	p.PotentialGain = p.SalePrice.Sub(p.SupplierPrice)
}

// Category represents a product category. Combo, dose and fractioned
// categories are exempt from stock deduction at sale time.
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:90;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

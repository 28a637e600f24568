package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyClosing holds the reconciled aggregates of one calendar month.
// Unique per (month, year); every field is overwritten on each recompute and
// never hand-edited.
type MonthlyClosing struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Month              int             `gorm:"not null;uniqueIndex:idx_closings_month_year" json:"month"`
	Year               int             `gorm:"not null;uniqueIndex:idx_closings_month_year" json:"year"`
	TotalNet           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_net"`
	TotalPotentialGain decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_potential_gain"`
	TotalExpenses      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_expenses"`
	NetProfit          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"net_profit"`
	PotentialProfit    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"potential_profit"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TableName returns the table name for the MonthlyClosing model
func (MonthlyClosing) TableName() string {
	return "monthly_closings"
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Withdrawal accumulates the total quantity deducted for one product on one
// calendar day. Rows are created lazily on the first deduction of the day and
// only ever increased by the ledger; manual corrections happen elsewhere.
// The product name and code are snapshotted so history survives catalog edits.
type Withdrawal struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_withdrawals_product_day" json:"product_id"`
	Day         time.Time `gorm:"type:date;not null;uniqueIndex:idx_withdrawals_product_day" json:"day"`
	ProductName string    `gorm:"size:255" json:"product_name"`
	ProductCode *string   `gorm:"size:100" json:"product_code,omitempty"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Withdrawal model
func (Withdrawal) TableName() string {
	return "withdrawals"
}

// DayOf truncates a timestamp to its calendar day in the local zone
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Batch is one stock unit: a quantity of a single product sharing one expiry
// date, or the product's single no-expiry bucket. At most one batch exists per
// (product, expiry) pair; the ledger merges additions into an existing batch
// and deletes batches the moment their quantity reaches zero. The invariant is
// enforced by the ledger under the per-product lock, not by the schema, since
// SQL unique indexes treat NULL expiries as distinct.
type Batch struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index:idx_batches_product_expiry" json:"product_id"`
	Expiry    *time.Time `gorm:"type:date;index:idx_batches_product_expiry" json:"expiry,omitempty"`
	Quantity  int        `gorm:"not null" json:"quantity"`
	Lot       int        `gorm:"not null" json:"lot"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// TableName returns the table name for the Batch model
func (Batch) TableName() string {
	return "batches"
}

// SameExpiry reports whether the batch covers the given expiry date,
// treating nil as the no-expiry bucket
func (b *Batch) SameExpiry(expiry *time.Time) bool {
	if b.Expiry == nil || expiry == nil {
		return b.Expiry == nil && expiry == nil
	}
	return sameDay(*b.Expiry, *expiry)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SortBatches orders batches for lot numbering and deduction: dated batches
// first in ascending expiry order, the no-expiry bucket after all dated ones
// regardless of how soon those expire, creation order breaking ties.
func SortBatches(batches []Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		bi, bj := batches[i], batches[j]
		if (bi.Expiry == nil) != (bj.Expiry == nil) {
			return bi.Expiry != nil
		}
		if bi.Expiry != nil && bj.Expiry != nil && !sameDay(*bi.Expiry, *bj.Expiry) {
			return bi.Expiry.Before(*bj.Expiry)
		}
		return bi.ID < bj.ID
	})
}

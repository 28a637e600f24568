package enum

// ComplementType identifies an add-on attached to a cart line
type ComplementType string

const (
	// ComplementIce is the ice add-on; combos get 5 units by default
	ComplementIce ComplementType = "ice"
	// ComplementEnergy is the optional energy-drink add-on
	ComplementEnergy ComplementType = "energy"
)

// Valid reports whether the complement type is recognized
func (t ComplementType) Valid() bool {
	return t == ComplementIce || t == ComplementEnergy
}

// DefaultComboIceQty is the ice quantity applied to combo lines when the
// request leaves it unspecified
const DefaultComboIceQty = 5

// StockExemptCategories lists product categories whose main lines never touch
// the stock ledger: combos and doses are assembled from other products, and
// fractioned items are sold below batch granularity.
var StockExemptCategories = map[string]struct{}{
	"combos":      {},
	"doses":       {},
	"fracionados": {},
}

// IsStockExempt reports whether a (lower-cased) category name skips deduction
func IsStockExempt(category string) bool {
	_, ok := StockExemptCategories[category]
	return ok
}

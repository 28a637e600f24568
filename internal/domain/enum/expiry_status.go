package enum

import "time"

// ExpiryStatus classifies how close a batch is to its expiry date
type ExpiryStatus string

const (
	ExpiryGreen   ExpiryStatus = "green"   // no expiry, or more than 15 days away
	ExpiryYellow  ExpiryStatus = "yellow"  // within 15 days
	ExpiryRed     ExpiryStatus = "red"     // within 5 days
	ExpiryExpired ExpiryStatus = "expired" // already past
)

// ClassifyExpiry returns the status of an expiry date relative to today.
// A nil expiry means the batch never expires.
func ClassifyExpiry(expiry *time.Time, today time.Time) ExpiryStatus {
	if expiry == nil {
		return ExpiryGreen
	}
	day := today.Truncate(24 * time.Hour)
	exp := expiry.Truncate(24 * time.Hour)
	switch {
	case exp.Before(day):
		return ExpiryExpired
	case !exp.After(day.AddDate(0, 0, 5)):
		return ExpiryRed
	case !exp.After(day.AddDate(0, 0, 15)):
		return ExpiryYellow
	default:
		return ExpiryGreen
	}
}

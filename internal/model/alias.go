package model

import "time"

// MerchantAlias is a persisted mapping from a merchant-name string to a
// category with a confidence score. Aliases are keyed on the normalized
// name, created on first successful categorization, and touched on every
// subsequent cache hit. They are never deleted in normal operation.
type MerchantAlias struct {
	LastUsedAt   time.Time
	MerchantName string
	Normalized   string
	CategoryName string
	Confidence   float64
	ID           int64
	CategoryID   int
}

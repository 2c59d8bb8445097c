package model

import "time"

// Transaction represents a single bank-feed transaction for one user.
//
// OriginalCategory is set exactly once, on the first user override, and is
// preserved across any later overrides. The categorization engine only ever
// reads Category, OriginalCategory and UserOverridden.
type Transaction struct {
	Date             time.Time
	OriginalCategory *string
	ID               string
	UserID           string
	MerchantName     string
	Category         string
	Amount           float64
	UserOverridden   bool
}

// User is an account holder. The access token links the user to their bank
// feed for the similarity engine's transaction window.
type User struct {
	CreatedAt        time.Time
	ID               string
	PlaidAccessToken string
}

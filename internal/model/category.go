// Package model defines the core domain types shared across the application.
package model

import "time"

// Category represents a spending category. A nil OwnerUserID marks a
// site-wide category shared by every user; otherwise the category belongs
// to a single user's editable namespace.
type Category struct {
	CreatedAt   time.Time
	OwnerUserID *string
	Name        string
	ID          int
}

// IsShared reports whether the category is site-wide.
func (c *Category) IsShared() bool {
	return c.OwnerUserID == nil
}

// UncategorizedName is the per-user catch-all category. It is resolvable for
// any user via get-or-create and is the categorizer's last resort.
const UncategorizedName = "Uncategorized"

package models

import "strings"

// Category tags transactions for reporting. Names are unique within a trip.
type Category struct {
	TripID string
	Name   string
	// Icon is an icon reference understood by the UI.
	Icon string
	// AutoShared makes new transactions in this category shared by default.
	AutoShared bool
}

// Validate checks the fields a user must provide.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "is required")
	}
	return nil
}

// PaymentMethod is a named tag (e.g., "Cash", "Credit") with no balance effect.
type PaymentMethod struct {
	TripID string
	Name   string
}

// Validate checks the fields a user must provide.
func (p *PaymentMethod) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "is required")
	}
	return nil
}

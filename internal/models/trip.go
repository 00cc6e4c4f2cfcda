package models

import (
	"strings"
	"time"
)

// Trip is the scoping container for one travel event's wallets, transactions and exchanges.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name of the trip (e.g., "Lisbon 2025").
	Name string

	// OwnerID is the user who created the trip.
	OwnerID string

	// CreatedAt is when the trip was created. Trips are listed most recent first.
	CreatedAt time.Time
}

// Validate checks the fields a user must provide.
func (t *Trip) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return NewValidationError("name", "is required")
	}
	return nil
}

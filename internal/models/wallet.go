package models

import (
	"strings"
	"time"
)

// Wallet is a participant's purse whose balance is tracked within a trip.
type Wallet struct {
	// ID is the unique identifier for the wallet (UUID format).
	ID string

	// TripID is the trip this wallet belongs to.
	TripID string

	// Name is the participant's display name.
	Name string

	// Budget is the manually-set baseline of the balance. It is not derived;
	// adjusting it is how a balance is corrected or initial cash is seeded.
	Budget float64

	// AvatarURL is an optional public URL of the participant's picture.
	AvatarURL string

	// IncludedInDivision reports whether the wallet shares in shared
	// transactions and exchanges targeting every eligible wallet.
	IncludedInDivision bool

	// CreatedAt is when the wallet was created. A wallet only participates in
	// shared events dated at or after its creation. The zero value marks a
	// legacy wallet without a creation timestamp, which is always eligible.
	CreatedAt time.Time
}

// ExistedAt reports whether the wallet existed at t.
func (w *Wallet) ExistedAt(t time.Time) bool {
	return w.CreatedAt.IsZero() || !w.CreatedAt.After(t)
}

// EligibleAt reports whether the wallet takes a share of a shared event dated t.
func (w *Wallet) EligibleAt(t time.Time) bool {
	return w.IncludedInDivision && w.ExistedAt(t)
}

// Validate checks the fields a user must provide.
func (w *Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if w.TripID == "" {
		return NewValidationError("trip_id", "is required")
	}
	return nil
}

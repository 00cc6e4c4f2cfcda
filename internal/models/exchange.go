package models

import (
	"strings"
	"time"
)

// AllEligibleWire is the stored form of a target that splits among every
// eligible wallet.
const AllEligibleWire = "both"

// Target is the recipient of an exchange: either one specific wallet or
// every wallet eligible at the exchange date.
type Target struct {
	walletID string
	all      bool
}

// SpecificWallet targets a single wallet.
func SpecificWallet(walletID string) Target {
	return Target{walletID: walletID}
}

// AllEligible targets every wallet eligible at the exchange date.
func AllEligible() Target {
	return Target{all: true}
}

// ParseTarget converts a stored target value into a Target.
func ParseTarget(s string) Target {
	if s == AllEligibleWire {
		return AllEligible()
	}
	return SpecificWallet(s)
}

// IsAllEligible reports whether the target splits among eligible wallets.
func (t Target) IsAllEligible() bool {
	return t.all
}

// WalletID returns the targeted wallet, and false for AllEligible.
func (t Target) WalletID() (string, bool) {
	if t.all {
		return "", false
	}
	return t.walletID, true
}

// String returns the stored form of the target.
func (t Target) String() string {
	if t.all {
		return AllEligibleWire
	}
	return t.walletID
}

// IsZero reports whether no target was set.
func (t Target) IsZero() bool {
	return !t.all && t.walletID == ""
}

// Exchange is a currency conversion that injects funds into one or all wallets.
// The spent origin currency is foreign to the tracked balances, so an exchange
// only ever increases them.
type Exchange struct {
	// ID is the unique identifier for the exchange (UUID format).
	ID string

	// TripID is the trip this exchange belongs to.
	TripID string

	// Date is when the exchange happened.
	Date time.Time

	// OriginCurrency is the currency spent (e.g., "BRL").
	OriginCurrency string

	// OriginAmount is the amount spent in OriginCurrency.
	OriginAmount float64

	// TargetAmount is the amount received in the tracked currency.
	TargetAmount float64

	// Rate is OriginAmount / TargetAmount. Informational only.
	Rate float64

	// Target receives TargetAmount.
	Target Target

	// Location is where the exchange happened (e.g., "Wise", "Exchange Office").
	Location string
}

// ComputeRate returns OriginAmount / TargetAmount, or 0 when TargetAmount is 0.
func (e *Exchange) ComputeRate() float64 {
	if e.TargetAmount == 0 {
		return 0
	}
	return e.OriginAmount / e.TargetAmount
}

// Validate checks the fields a user must provide.
func (e *Exchange) Validate() error {
	if strings.TrimSpace(e.OriginCurrency) == "" {
		return NewValidationError("origin_currency", "is required")
	}
	if e.OriginAmount <= 0 {
		return NewValidationError("origin_amount", "must be positive")
	}
	if e.TargetAmount <= 0 {
		return NewValidationError("target_amount", "must be positive")
	}
	if e.Target.IsZero() {
		return NewValidationError("target_wallet", "is required")
	}
	return nil
}

package models

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType determines the sign of a transaction's effect on balances.
type TransactionType string

const (
	// TransactionExpense subtracts from the balance.
	TransactionExpense TransactionType = "expense"
	// TransactionIncome adds to the balance (returns, refunds, received money).
	TransactionIncome TransactionType = "income"
)

// ParseTransactionType converts a wire value into a TransactionType.
// An empty value is treated as an expense, matching records written before
// incomes existed.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case "", TransactionExpense:
		return TransactionExpense, nil
	case TransactionIncome:
		return TransactionIncome, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction is an expense or income recorded against a trip.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// TripID is the trip this transaction belongs to.
	TripID string

	// Description is a short free-text label (e.g., "Dinner at Ramiro").
	Description string

	// Amount is the total value, already inclusive of Tax. Never negative.
	Amount float64

	// Tax is the portion of Amount attributable to fees. It is used for
	// reporting only and does not change how Amount is applied.
	Tax float64

	// Date is when the transaction happened. Shared transactions are split
	// among the wallets eligible at this instant.
	Date time.Time

	// Category is the category name.
	Category string

	// Payer is the wallet that physically paid, or that received an income.
	Payer string

	// IsShared splits the transaction among all eligible wallets instead of
	// attributing it to Payer.
	IsShared bool

	// PaymentMethod is the payment method name (e.g., "Cash", "Credit").
	PaymentMethod string

	// Type is expense or income.
	Type TransactionType
}

// Signed returns the transaction's effect on a balance: negative for
// expenses, positive for incomes.
func (t *Transaction) Signed() float64 {
	if t.Type == TransactionIncome {
		return t.Amount
	}
	return -t.Amount
}

// Spend returns the transaction's contribution to spending totals: positive
// for expenses, negative for incomes.
func (t *Transaction) Spend() float64 {
	return -t.Signed()
}

// Validate checks the fields a user must provide.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return NewValidationError("description", "is required")
	}
	if t.Amount < 0 {
		return NewValidationError("amount", "must not be negative")
	}
	if t.Tax < 0 || t.Tax > t.Amount {
		return NewValidationError("tax", "must be between 0 and amount")
	}
	if t.Category == "" {
		return NewValidationError("category", "is required")
	}
	if !t.IsShared && t.Payer == "" {
		return NewValidationError("payer", "is required for non-shared transactions")
	}
	if t.Type != TransactionExpense && t.Type != TransactionIncome {
		return NewValidationError("type", fmt.Sprintf("unknown type %q", t.Type))
	}
	return nil
}

package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in       string
		wantAll  bool
		wantID   string
		wantWire string
	}{
		{in: "both", wantAll: true, wantWire: "both"},
		{in: "wallet-1", wantID: "wallet-1", wantWire: "wallet-1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			target := ParseTarget(tt.in)
			if target.IsAllEligible() != tt.wantAll {
				t.Errorf("IsAllEligible() = %v, want %v", target.IsAllEligible(), tt.wantAll)
			}
			id, ok := target.WalletID()
			if ok == tt.wantAll {
				t.Errorf("WalletID() ok = %v, want %v", ok, !tt.wantAll)
			}
			if id != tt.wantID {
				t.Errorf("WalletID() = %q, want %q", id, tt.wantID)
			}
			if target.String() != tt.wantWire {
				t.Errorf("String() = %q, want %q", target.String(), tt.wantWire)
			}
		})
	}

	if !(Target{}).IsZero() {
		t.Error("zero Target should report IsZero")
	}
	if AllEligible().IsZero() {
		t.Error("AllEligible should not report IsZero")
	}
}

func TestWalletEligibleAt(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC) }

	tests := []struct {
		name   string
		wallet Wallet
		at     time.Time
		want   bool
	}{
		{"created before", Wallet{IncludedInDivision: true, CreatedAt: day(1)}, day(5), true},
		{"created at the same instant", Wallet{IncludedInDivision: true, CreatedAt: day(5)}, day(5), true},
		{"created after", Wallet{IncludedInDivision: true, CreatedAt: day(10)}, day(5), false},
		{"legacy wallet without timestamp", Wallet{IncludedInDivision: true}, day(5), true},
		{"excluded from division", Wallet{IncludedInDivision: false, CreatedAt: day(1)}, day(5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.wallet.EligibleAt(tt.at); got != tt.want {
				t.Errorf("EligibleAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransactionSigned(t *testing.T) {
	expense := Transaction{Amount: 30, Type: TransactionExpense}
	income := Transaction{Amount: 10, Type: TransactionIncome}

	if expense.Signed() != -30 {
		t.Errorf("expense Signed() = %v, want -30", expense.Signed())
	}
	if income.Signed() != 10 {
		t.Errorf("income Signed() = %v, want 10", income.Signed())
	}
	if expense.Spend() != 30 || income.Spend() != -10 {
		t.Errorf("Spend() = %v/%v, want 30/-10", expense.Spend(), income.Spend())
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Description: "Dinner",
		Amount:      40,
		Tax:         4,
		Category:    "Food",
		Payer:       "w1",
		Type:        TransactionExpense,
	}

	tests := []struct {
		name      string
		mutate    func(tx *Transaction)
		wantField string
	}{
		{"valid", func(tx *Transaction) {}, ""},
		{"missing description", func(tx *Transaction) { tx.Description = " " }, "description"},
		{"zero amount", func(tx *Transaction) { tx.Amount = 0; tx.Tax = 0 }, ""},
		{"negative amount", func(tx *Transaction) { tx.Amount = -1; tx.Tax = 0 }, "amount"},
		{"tax above amount", func(tx *Transaction) { tx.Tax = 50 }, "tax"},
		{"missing category", func(tx *Transaction) { tx.Category = "" }, "category"},
		{"missing payer", func(tx *Transaction) { tx.Payer = "" }, "payer"},
		{"shared without payer", func(tx *Transaction) { tx.Payer = ""; tx.IsShared = true }, ""},
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestExchangeComputeRate(t *testing.T) {
	ex := Exchange{OriginAmount: 1100, TargetAmount: 200}
	if got := ex.ComputeRate(); got != 5.5 {
		t.Errorf("ComputeRate() = %v, want 5.5", got)
	}
	ex.TargetAmount = 0
	if got := ex.ComputeRate(); got != 0 {
		t.Errorf("ComputeRate() with zero target = %v, want 0", got)
	}
}

func TestParseTransactionType(t *testing.T) {
	if tt, err := ParseTransactionType(""); err != nil || tt != TransactionExpense {
		t.Errorf("ParseTransactionType(\"\") = %v, %v", tt, err)
	}
	if tt, err := ParseTransactionType("income"); err != nil || tt != TransactionIncome {
		t.Errorf("ParseTransactionType(income) = %v, %v", tt, err)
	}
	if _, err := ParseTransactionType("transfer"); err == nil {
		t.Error("expected error for unknown type")
	}
}

package ledger

import (
	"context"
	"slices"

	"github.com/mmynk/moneytravel/internal/models"
)

// Sharing selects how a new transaction is split.
type Sharing int

const (
	// SharedUnset follows the category: auto-shared categories produce
	// shared transactions.
	SharedUnset Sharing = iota
	// SharedYes splits the transaction among eligible wallets.
	SharedYes
	// SharedNo attributes the transaction to its payer only.
	SharedNo
)

// AddTransaction records an expense or income in the active trip. A zero
// date defaults to now and an empty type to expense.
func (s *Session) AddTransaction(ctx context.Context, tx models.Transaction, sharing Sharing) (models.Transaction, error) {
	tripID, err := s.view(func(snap *Snapshot) error {
		switch sharing {
		case SharedYes:
			tx.IsShared = true
		case SharedNo:
			tx.IsShared = false
		default:
			c, _ := snap.Category(tx.Category)
			tx.IsShared = c.AutoShared
		}
		return checkPayer(snap, tx.Payer)
	})
	if err != nil {
		return models.Transaction{}, err
	}

	tx.ID = ""
	tx.TripID = tripID
	tx.Date = s.timestamp(tx.Date)
	if tx.Type == "" {
		tx.Type = models.TransactionExpense
	}
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, err
	}

	if err := s.backend.CreateTransaction(ctx, &tx); err != nil {
		return models.Transaction{}, err
	}

	s.apply(tripID, func(snap *Snapshot) {
		snap.transactions = append(snap.transactions, tx)
		snap.sortTransactions()
	})
	return tx, nil
}

// UpdateTransaction replaces an existing transaction of the active trip. A
// zero date keeps the stored one, so an edit never moves the transaction
// to a different set of eligible wallets.
func (s *Session) UpdateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	tripID, err := s.view(func(snap *Snapshot) error {
		stored, ok := snap.Transaction(tx.ID)
		if !ok {
			return notFound("transaction", tx.ID)
		}
		if tx.Date.IsZero() {
			tx.Date = stored.Date
		}
		return checkPayer(snap, tx.Payer)
	})
	if err != nil {
		return models.Transaction{}, err
	}

	tx.TripID = tripID
	if tx.Type == "" {
		tx.Type = models.TransactionExpense
	}
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, err
	}

	if err := s.backend.UpdateTransaction(ctx, &tx); err != nil {
		return models.Transaction{}, err
	}

	s.apply(tripID, func(snap *Snapshot) {
		if i := slices.IndexFunc(snap.transactions, func(t models.Transaction) bool { return t.ID == tx.ID }); i >= 0 {
			snap.transactions[i] = tx
			snap.sortTransactions()
		}
	})
	return tx, nil
}

// RemoveTransaction deletes a transaction of the active trip.
func (s *Session) RemoveTransaction(ctx context.Context, txID string) error {
	tripID, err := s.view(func(snap *Snapshot) error {
		if _, ok := snap.Transaction(txID); !ok {
			return notFound("transaction", txID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.backend.DeleteTransaction(ctx, txID); err != nil {
		return err
	}

	s.apply(tripID, func(snap *Snapshot) {
		snap.transactions = slices.DeleteFunc(snap.transactions, func(t models.Transaction) bool { return t.ID == txID })
	})
	return nil
}

// checkPayer rejects payers that are not wallets of the trip.
func checkPayer(snap *Snapshot, payer string) error {
	if payer == "" {
		return nil
	}
	if _, ok := snap.Wallet(payer); !ok {
		return models.NewValidationError("payer", "unknown wallet "+payer)
	}
	return nil
}

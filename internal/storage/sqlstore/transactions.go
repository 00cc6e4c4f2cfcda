package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/moneytravel/internal/models"
)

const transactionColumns = "id, trip_id, description, amount, tax, date, category, payer, is_shared, payment_method, type"

// ListTransactions returns the trip's transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context, tripID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT "+transactionColumns+" FROM transactions WHERE trip_id = ? ORDER BY date DESC, id",
	), tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			tx      models.Transaction
			date    int64
			txnType string
		)
		if err := rows.Scan(
			&tx.ID,
			&tx.TripID,
			&tx.Description,
			&tx.Amount,
			&tx.Tax,
			&date,
			&tx.Category,
			&tx.Payer,
			&tx.IsShared,
			&tx.PaymentMethod,
			&txnType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Date = fromMillis(date)
		if tx.Type, err = models.ParseTransactionType(txnType); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}

// CreateTransaction persists a new transaction, generating its ID and date if unset.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.Date.IsZero() {
		tx.Date = now()
	}
	if tx.Type == "" {
		tx.Type = models.TransactionExpense
	}

	_, err := s.db.ExecContext(ctx, s.rebind(
		"INSERT INTO transactions ("+transactionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	),
		tx.ID,
		tx.TripID,
		tx.Description,
		tx.Amount,
		tx.Tax,
		toMillis(tx.Date),
		tx.Category,
		tx.Payer,
		tx.IsShared,
		tx.PaymentMethod,
		string(tx.Type),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// UpdateTransaction replaces every field of an existing transaction except its trip.
func (s *Store) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE transactions
		SET description = ?, amount = ?, tax = ?, date = ?, category = ?,
			payer = ?, is_shared = ?, payment_method = ?, type = ?
		WHERE id = ?
	`),
		tx.Description,
		tx.Amount,
		tx.Tax,
		toMillis(tx.Date),
		tx.Category,
		tx.Payer,
		tx.IsShared,
		tx.PaymentMethod,
		string(tx.Type),
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return checkAffected(res, "transaction", tx.ID)
}

// DeleteTransaction removes a transaction.
func (s *Store) DeleteTransaction(ctx context.Context, txID string) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM transactions WHERE id = ?"), txID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return checkAffected(res, "transaction", txID)
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
)

const walletColumns = "id, trip_id, name, budget, avatar_url, included_in_division, created_at"

// ListWallets returns the trip's wallets in creation order. Legacy wallets
// without a creation time sort first.
func (s *Store) ListWallets(ctx context.Context, tripID string) ([]models.Wallet, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT "+walletColumns+" FROM wallets WHERE trip_id = ? ORDER BY COALESCE(created_at, 0), id",
	), tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallets: %w", err)
	}

	return wallets, nil
}

// GetWallet retrieves a wallet by ID.
func (s *Store) GetWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT "+walletColumns+" FROM wallets WHERE id = ?",
	), walletID)
	wallet, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wallet %s: %w", walletID, storage.ErrNotFound)
	}
	return wallet, err
}

// CreateWallet persists a new wallet, generating its ID and creation time if unset.
func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	if wallet.ID == "" {
		wallet.ID = uuid.New().String()
	}
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = now()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(
		"INSERT INTO wallets ("+walletColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
	),
		wallet.ID,
		wallet.TripID,
		wallet.Name,
		wallet.Budget,
		wallet.AvatarURL,
		wallet.IncludedInDivision,
		nullMillis(wallet.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert wallet: %w", err)
	}

	return nil
}

// UpdateWallet updates the mutable fields of a wallet. The trip and creation
// time never change.
func (s *Store) UpdateWallet(ctx context.Context, wallet *models.Wallet) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		"UPDATE wallets SET name = ?, budget = ?, avatar_url = ?, included_in_division = ? WHERE id = ?",
	), wallet.Name, wallet.Budget, wallet.AvatarURL, wallet.IncludedInDivision, wallet.ID)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return checkAffected(res, "wallet", wallet.ID)
}

// DeleteWallet removes a wallet. Transactions that reference it as payer are kept.
func (s *Store) DeleteWallet(ctx context.Context, walletID string) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM wallets WHERE id = ?"), walletID)
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	return checkAffected(res, "wallet", walletID)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (*models.Wallet, error) {
	var (
		wallet    models.Wallet
		createdAt sql.NullInt64
	)
	err := row.Scan(
		&wallet.ID,
		&wallet.TripID,
		&wallet.Name,
		&wallet.Budget,
		&wallet.AvatarURL,
		&wallet.IncludedInDivision,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan wallet: %w", err)
	}
	wallet.CreatedAt = fromNullMillis(createdAt)

	return &wallet, nil
}

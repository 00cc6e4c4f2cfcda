package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/moneytravel/internal/models"
)

const exchangeColumns = "id, trip_id, date, origin_currency, origin_amount, target_amount, rate, target_wallet, location"

// ListExchanges returns the trip's exchanges, newest first.
func (s *Store) ListExchanges(ctx context.Context, tripID string) ([]models.Exchange, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT "+exchangeColumns+" FROM exchanges WHERE trip_id = ? ORDER BY date DESC, id",
	), tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []models.Exchange
	for rows.Next() {
		var (
			ex     models.Exchange
			date   int64
			target string
		)
		if err := rows.Scan(
			&ex.ID,
			&ex.TripID,
			&date,
			&ex.OriginCurrency,
			&ex.OriginAmount,
			&ex.TargetAmount,
			&ex.Rate,
			&target,
			&ex.Location,
		); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		ex.Date = fromMillis(date)
		ex.Target = models.ParseTarget(target)
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchanges: %w", err)
	}

	return exchanges, nil
}

// CreateExchange persists a new exchange, generating its ID and date if unset.
// The rate is always recomputed from the amounts.
func (s *Store) CreateExchange(ctx context.Context, ex *models.Exchange) error {
	if ex.ID == "" {
		ex.ID = uuid.New().String()
	}
	if ex.Date.IsZero() {
		ex.Date = now()
	}
	ex.Rate = ex.ComputeRate()

	_, err := s.db.ExecContext(ctx, s.rebind(
		"INSERT INTO exchanges ("+exchangeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
	),
		ex.ID,
		ex.TripID,
		toMillis(ex.Date),
		ex.OriginCurrency,
		ex.OriginAmount,
		ex.TargetAmount,
		ex.Rate,
		ex.Target.String(),
		ex.Location,
	)
	if err != nil {
		return fmt.Errorf("failed to insert exchange: %w", err)
	}

	return nil
}

// UpdateExchange replaces every field of an existing exchange except its trip.
func (s *Store) UpdateExchange(ctx context.Context, ex *models.Exchange) error {
	ex.Rate = ex.ComputeRate()

	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE exchanges
		SET date = ?, origin_currency = ?, origin_amount = ?, target_amount = ?,
			rate = ?, target_wallet = ?, location = ?
		WHERE id = ?
	`),
		toMillis(ex.Date),
		ex.OriginCurrency,
		ex.OriginAmount,
		ex.TargetAmount,
		ex.Rate,
		ex.Target.String(),
		ex.Location,
		ex.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update exchange: %w", err)
	}
	return checkAffected(res, "exchange", ex.ID)
}

// DeleteExchange removes an exchange.
func (s *Store) DeleteExchange(ctx context.Context, exchangeID string) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM exchanges WHERE id = ?"), exchangeID)
	if err != nil {
		return fmt.Errorf("failed to delete exchange: %w", err)
	}
	return checkAffected(res, "exchange", exchangeID)
}

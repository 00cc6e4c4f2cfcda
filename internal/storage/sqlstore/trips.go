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

// ListTrips returns the owner's trips, most recent first.
func (s *Store) ListTrips(ctx context.Context, ownerID string) ([]models.Trip, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT id, name, owner_id, created_at FROM trips WHERE owner_id = ? ORDER BY created_at DESC, id",
	), ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var (
			trip      models.Trip
			createdAt int64
		)
		if err := rows.Scan(&trip.ID, &trip.Name, &trip.OwnerID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trip.CreatedAt = fromMillis(createdAt)
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	return trips, nil
}

// GetTrip retrieves a trip by ID.
func (s *Store) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	var (
		trip      models.Trip
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT id, name, owner_id, created_at FROM trips WHERE id = ?",
	), tripID).Scan(&trip.ID, &trip.Name, &trip.OwnerID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	trip.CreatedAt = fromMillis(createdAt)

	return &trip, nil
}

// CreateTrip persists a new trip, generating its ID and creation time if unset.
func (s *Store) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = now()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(
		"INSERT INTO trips (id, name, owner_id, created_at) VALUES (?, ?, ?, ?)",
	), trip.ID, trip.Name, trip.OwnerID, toMillis(trip.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	return nil
}

// UpdateTrip renames a trip. Owner and creation time are immutable.
func (s *Store) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		"UPDATE trips SET name = ? WHERE id = ?",
	), trip.Name, trip.ID)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return checkAffected(res, "trip", trip.ID)
}

// DeleteTrip removes the trip; wallets, transactions, exchanges and catalog
// rows cascade.
func (s *Store) DeleteTrip(ctx context.Context, tripID string) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM trips WHERE id = ?"), tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return checkAffected(res, "trip", tripID)
}

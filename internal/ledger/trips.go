package ledger

import (
	"context"
	"log/slog"
	"slices"

	"github.com/mmynk/moneytravel/internal/models"
)

// CreateTrip creates a trip owned by the session's user. The new trip is
// listed but not activated.
func (s *Session) CreateTrip(ctx context.Context, name string) (models.Trip, error) {
	trip := models.Trip{Name: name, OwnerID: s.ownerID}
	if err := trip.Validate(); err != nil {
		return models.Trip{}, err
	}

	if err := s.backend.CreateTrip(ctx, &trip); err != nil {
		return models.Trip{}, err
	}

	s.mu.Lock()
	s.trips = append([]models.Trip{trip}, s.trips...)
	s.mu.Unlock()

	slog.Info("Trip created", "trip_id", trip.ID, "name", trip.Name)
	return trip, nil
}

// RenameTrip renames any of the owner's trips.
func (s *Session) RenameTrip(ctx context.Context, tripID, name string) (models.Trip, error) {
	s.mu.RLock()
	i := slices.IndexFunc(s.trips, func(t models.Trip) bool { return t.ID == tripID })
	var trip models.Trip
	if i >= 0 {
		trip = s.trips[i]
	}
	s.mu.RUnlock()
	if i < 0 {
		return models.Trip{}, notFound("trip", tripID)
	}

	trip.Name = name
	if err := trip.Validate(); err != nil {
		return models.Trip{}, err
	}
	if err := s.backend.UpdateTrip(ctx, &trip); err != nil {
		return models.Trip{}, err
	}

	s.mu.Lock()
	if i := slices.IndexFunc(s.trips, func(t models.Trip) bool { return t.ID == tripID }); i >= 0 {
		s.trips[i] = trip
	}
	if s.snap.TripID() == tripID {
		renamed := trip
		s.snap.Trip = &renamed
	}
	s.mu.Unlock()

	return trip, nil
}

// DeleteTrip deletes a trip with everything in it. Deleting the active trip
// clears the active selection and supersedes any load in flight.
func (s *Session) DeleteTrip(ctx context.Context, tripID string) error {
	if err := s.backend.DeleteTrip(ctx, tripID); err != nil {
		return err
	}

	s.mu.Lock()
	s.trips = slices.DeleteFunc(s.trips, func(t models.Trip) bool { return t.ID == tripID })
	wasActive := s.snap.TripID() == tripID
	if wasActive {
		s.generation++
		s.snap = &Snapshot{}
	}
	s.mu.Unlock()

	if wasActive {
		if err := s.prefs.SetActiveTrip(""); err != nil {
			slog.Warn("Failed to clear active trip", "error", err)
		}
	}
	slog.Info("Trip deleted", "trip_id", tripID, "was_active", wasActive)
	return nil
}

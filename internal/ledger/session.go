package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmynk/moneytravel/internal/calculator"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
)

// Session is the entity store of one client. It mirrors the active trip and
// routes every mutation through the backend.
type Session struct {
	backend storage.TripStore
	prefs   Preferences
	ownerID string
	now     func() time.Time

	mu         sync.RWMutex
	generation uint64
	trips      []models.Trip
	snap       *Snapshot
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the clock used for default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session for ownerID. Nothing is loaded until Open.
func NewSession(backend storage.TripStore, prefs Preferences, ownerID string, opts ...Option) *Session {
	if prefs == nil {
		prefs = &MemoryPreferences{}
	}
	s := &Session{
		backend: backend,
		prefs:   prefs,
		ownerID: ownerID,
		now:     time.Now,
		snap:    &Snapshot{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open lists the owner's trips and activates the preferred one, falling back
// to the most recent trip. With no trips the session stays empty.
func (s *Session) Open(ctx context.Context) error {
	trips, err := s.backend.ListTrips(ctx, s.ownerID)
	if err != nil {
		return fmt.Errorf("failed to list trips: %w", err)
	}

	s.mu.Lock()
	s.trips = trips
	s.mu.Unlock()

	if len(trips) == 0 {
		slog.Debug("No trips to activate", "owner_id", s.ownerID)
		return nil
	}

	active := trips[0].ID
	if preferred := s.prefs.ActiveTrip(); preferred != "" {
		if slices.ContainsFunc(trips, func(t models.Trip) bool { return t.ID == preferred }) {
			active = preferred
		}
	}

	return s.SwitchTrip(ctx, active)
}

// SwitchTrip loads tripID and makes it active. When another switch starts
// before this load completes, the loaded data is discarded and ErrSuperseded
// is returned.
func (s *Session) SwitchTrip(ctx context.Context, tripID string) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	snap, err := Load(ctx, s.backend, tripID)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		slog.Debug("Discarding stale trip load", "trip_id", tripID)
		return ErrSuperseded
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.snap = snap
	s.mu.Unlock()

	if err := s.prefs.SetActiveTrip(tripID); err != nil {
		slog.Warn("Failed to persist active trip", "trip_id", tripID, "error", err)
	}
	slog.Info("Switched trip",
		"trip_id", tripID,
		"wallets", len(snap.wallets),
		"transactions", len(snap.transactions),
		"exchanges", len(snap.exchanges),
	)
	return nil
}

// Refresh reloads the active trip from the backend.
func (s *Session) Refresh(ctx context.Context) error {
	tripID := s.ActiveTripID()
	if tripID == "" {
		return ErrNoActiveTrip
	}
	return s.SwitchTrip(ctx, tripID)
}

// Trips returns the owner's trips, most recent first.
func (s *Session) Trips() []models.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.trips)
}

// ActiveTripID returns the active trip, or "" when none is active.
func (s *Session) ActiveTripID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.TripID()
}

// Snapshot returns a copy of the active trip's state.
func (s *Session) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Balance returns the current balance of a wallet of the active trip.
func (s *Session) Balance(walletID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calculator.Balance(s.snap, walletID)
}

// Balances returns the balance breakdown of every wallet of the active trip.
func (s *Session) Balances() []calculator.WalletBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calculator.Balances(s.snap)
}

// Report aggregates the active trip's transactions within r.
func (s *Session) Report(r calculator.DateRange) calculator.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calculator.BuildReport(s.snap, r, s.now())
}

// view runs fn against the active snapshot under the read lock and returns
// the active trip ID.
func (s *Session) view(fn func(snap *Snapshot) error) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap.Trip == nil {
		return "", ErrNoActiveTrip
	}
	if fn != nil {
		if err := fn(s.snap); err != nil {
			return "", err
		}
	}
	return s.snap.Trip.ID, nil
}

// apply runs fn under the write lock if tripID is still active. A mutation
// that completes after a switch updates the backend but not the new mirror.
func (s *Session) apply(tripID string, fn func(snap *Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.TripID() != tripID {
		slog.Debug("Active trip changed during mutation", "trip_id", tripID)
		return
	}
	fn(s.snap)
}

// timestamp defaults a zero time to now.
func (s *Session) timestamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
}

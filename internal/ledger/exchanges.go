package ledger

import (
	"context"
	"slices"

	"github.com/mmynk/moneytravel/internal/models"
)

// AddExchange records a currency exchange in the active trip. The rate is
// derived from the amounts.
func (s *Session) AddExchange(ctx context.Context, ex models.Exchange) (models.Exchange, error) {
	tripID, err := s.view(func(snap *Snapshot) error {
		return checkTarget(snap, ex.Target)
	})
	if err != nil {
		return models.Exchange{}, err
	}

	ex.ID = ""
	ex.TripID = tripID
	ex.Date = s.timestamp(ex.Date)
	ex.Rate = ex.ComputeRate()
	if err := ex.Validate(); err != nil {
		return models.Exchange{}, err
	}

	if err := s.backend.CreateExchange(ctx, &ex); err != nil {
		return models.Exchange{}, err
	}

	s.apply(tripID, func(snap *Snapshot) {
		snap.exchanges = append(snap.exchanges, ex)
		snap.sortExchanges()
	})
	return ex, nil
}

// UpdateExchange replaces an existing exchange of the active trip. A zero
// date keeps the stored one.
func (s *Session) UpdateExchange(ctx context.Context, ex models.Exchange) (models.Exchange, error) {
	tripID, err := s.view(func(snap *Snapshot) error {
		stored, ok := snap.Exchange(ex.ID)
		if !ok {
			return notFound("exchange", ex.ID)
		}
		if ex.Date.IsZero() {
			ex.Date = stored.Date
		}
		return checkTarget(snap, ex.Target)
	})
	if err != nil {
		return models.Exchange{}, err
	}

	ex.TripID = tripID
	ex.Rate = ex.ComputeRate()
	if err := ex.Validate(); err != nil {
		return models.Exchange{}, err
	}

	if err := s.backend.UpdateExchange(ctx, &ex); err != nil {
		return models.Exchange{}, err
	}

	s.apply(tripID, func(snap *Snapshot) {
		if i := slices.IndexFunc(snap.exchanges, func(e models.Exchange) bool { return e.ID == ex.ID }); i >= 0 {
			snap.exchanges[i] = ex
			snap.sortExchanges()
		}
	})
	return ex, nil
}

// RemoveExchange deletes an exchange of the active trip.
func (s *Session) RemoveExchange(ctx context.Context, exchangeID string) error {
	tripID, err := s.view(func(snap *Snapshot) error {
		if _, ok := snap.Exchange(exchangeID); !ok {
			return notFound("exchange", exchangeID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.backend.DeleteExchange(ctx, exchangeID); err != nil {
		return err
	}

	s.apply(tripID, func(snap *Snapshot) {
		snap.exchanges = slices.DeleteFunc(snap.exchanges, func(e models.Exchange) bool { return e.ID == exchangeID })
	})
	return nil
}

// checkTarget rejects exchanges aimed at a wallet outside the trip.
func checkTarget(snap *Snapshot, target models.Target) error {
	id, specific := target.WalletID()
	if !specific || id == "" {
		return nil
	}
	if _, ok := snap.Wallet(id); !ok {
		return models.NewValidationError("target_wallet", "unknown wallet "+id)
	}
	return nil
}

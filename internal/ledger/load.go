package ledger

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
)

// Load fetches every collection of a trip concurrently. Any failure fails
// the whole load; a partial snapshot is never returned.
func Load(ctx context.Context, backend storage.TripStore, tripID string) (*Snapshot, error) {
	var (
		trip           *models.Trip
		wallets        []models.Wallet
		transactions   []models.Transaction
		exchanges      []models.Exchange
		categories     []models.Category
		paymentMethods []models.PaymentMethod
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		trip, err = backend.GetTrip(ctx, tripID)
		return wrapLoad("trip", err)
	})
	g.Go(func() (err error) {
		wallets, err = backend.ListWallets(ctx, tripID)
		return wrapLoad("wallets", err)
	})
	g.Go(func() (err error) {
		transactions, err = backend.ListTransactions(ctx, tripID)
		return wrapLoad("transactions", err)
	})
	g.Go(func() (err error) {
		exchanges, err = backend.ListExchanges(ctx, tripID)
		return wrapLoad("exchanges", err)
	})
	g.Go(func() (err error) {
		categories, err = backend.ListCategories(ctx, tripID)
		return wrapLoad("categories", err)
	})
	g.Go(func() (err error) {
		paymentMethods, err = backend.ListPaymentMethods(ctx, tripID)
		return wrapLoad("payment methods", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := NewSnapshot(trip, wallets, transactions, exchanges, categories, paymentMethods)
	snap.sortTransactions()
	snap.sortExchanges()
	return snap, nil
}

func wrapLoad(what string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", what, err)
	}
	return nil
}

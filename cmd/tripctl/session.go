package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/mmynk/moneytravel/internal/client"
	"github.com/mmynk/moneytravel/internal/ledger"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
)

var errNotLoggedIn = errors.New("not logged in, run `tripctl login` first")

func newClient() *client.Client {
	return client.New(viper.GetString(keyServer), client.WithToken(viper.GetString(keyToken)))
}

// openSession connects to the server with the saved token and loads the
// active trip.
func openSession(ctx context.Context) (*ledger.Session, *client.Client, error) {
	store, err := defaultConfigStore()
	if err != nil {
		return nil, nil, err
	}
	userID := store.get(keyUserID)
	if store.get(keyToken) == "" || userID == "" {
		return nil, nil, errNotLoggedIn
	}

	c := newClient()
	s := ledger.NewSession(c, store, userID)
	if err := s.Open(ctx); err != nil {
		return nil, nil, err
	}
	return s, c, nil
}

// requireTrip is openSession for commands that need an active trip.
func requireTrip(ctx context.Context) (*ledger.Session, *client.Client, error) {
	s, c, err := openSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	if s.ActiveTripID() == "" {
		return nil, nil, fmt.Errorf("%w: create one with `tripctl trips create`", ledger.ErrNoActiveTrip)
	}
	return s, c, nil
}

// remember records the view a command showed so a bare `tripctl` reopens it.
func remember(tab string) {
	store, err := defaultConfigStore()
	if err == nil {
		err = store.SetActiveTab(tab)
	}
	if err != nil {
		slog.Warn("Failed to save last view", "tab", tab, "error", err)
	}
}

// findWallet resolves a wallet by ID, then by case-insensitive name.
func findWallet(snap *ledger.Snapshot, ref string) (models.Wallet, error) {
	if w, ok := snap.Wallet(ref); ok {
		return w, nil
	}
	var match []models.Wallet
	for _, w := range snap.Wallets() {
		if strings.EqualFold(w.Name, ref) {
			match = append(match, w)
		}
	}
	switch len(match) {
	case 0:
		return models.Wallet{}, fmt.Errorf("wallet %q: %w", ref, storage.ErrNotFound)
	case 1:
		return match[0], nil
	default:
		return models.Wallet{}, fmt.Errorf("wallet name %q is ambiguous, use its ID", ref)
	}
}

// findTrip resolves a trip by ID, then by case-insensitive name.
func findTrip(trips []models.Trip, ref string) (models.Trip, error) {
	for _, t := range trips {
		if t.ID == ref {
			return t, nil
		}
	}
	for _, t := range trips {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}
	return models.Trip{}, fmt.Errorf("trip %q: %w", ref, storage.ErrNotFound)
}

// describe turns domain errors into messages for the terminal.
func describe(err error) string {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("%s %s", verr.Field, verr.Reason)
	case errors.Is(err, client.ErrUnauthenticated):
		return "session expired, run `tripctl login` again"
	case errors.Is(err, ledger.ErrLastWallet):
		return "a trip needs at least one wallet"
	case errors.Is(err, ledger.ErrWalletHasBalance):
		return "settle the wallet's balance before removing it"
	default:
		return err.Error()
	}
}

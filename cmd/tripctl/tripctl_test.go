package main

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/moneytravel/internal/events"
	"github.com/mmynk/moneytravel/internal/ledger"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
)

func TestConfigStorePersistsPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripctl", "config.yaml")
	store := &configStore{v: viper.New(), path: path}

	require.NoError(t, store.SetActiveTrip("trip-1"))
	require.NoError(t, store.SetActiveTab(tabReport))
	require.NoError(t, store.set(map[string]string{keyToken: "tok", keyUserID: "user-1"}))

	assert.Equal(t, "trip-1", store.ActiveTrip())
	assert.Equal(t, tabReport, store.ActiveTab())

	reread := viper.New()
	reread.SetConfigFile(path)
	require.NoError(t, reread.ReadInConfig())
	assert.Equal(t, "trip-1", reread.GetString(keyActiveTrip))
	assert.Equal(t, tabReport, reread.GetString(keyActiveTab))
	assert.Equal(t, "tok", reread.GetString(keyToken))
	assert.Equal(t, "user-1", reread.GetString(keyUserID))
}

func testSnapshot() *ledger.Snapshot {
	trip := &models.Trip{ID: "trip-1", Name: "Lisbon"}
	wallets := []models.Wallet{
		{ID: "w-ana", TripID: "trip-1", Name: "Ana", IncludedInDivision: true},
		{ID: "w-bruno", TripID: "trip-1", Name: "Bruno", IncludedInDivision: true},
		{ID: "w-bruno-2", TripID: "trip-1", Name: "bruno", IncludedInDivision: true},
	}
	txs := []models.Transaction{
		{ID: "abc12345-0000", TripID: "trip-1", Description: "Dinner", Amount: 30, Payer: "w-ana"},
		{ID: "abd99999-0000", TripID: "trip-1", Description: "Taxi", Amount: 12, Payer: "w-bruno"},
	}
	exchanges := []models.Exchange{
		{ID: "ex-1", TripID: "trip-1", OriginCurrency: "BRL", OriginAmount: 550, TargetAmount: 100, Target: models.AllEligible()},
	}
	return ledger.NewSnapshot(trip, wallets, txs, exchanges, nil, nil)
}

func TestFindWallet(t *testing.T) {
	snap := testSnapshot()

	w, err := findWallet(snap, "w-bruno")
	require.NoError(t, err)
	assert.Equal(t, "Bruno", w.Name)

	w, err = findWallet(snap, "ANA")
	require.NoError(t, err)
	assert.Equal(t, "w-ana", w.ID)

	_, err = findWallet(snap, "bruno")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = findWallet(snap, "Carla")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFindTrip(t *testing.T) {
	trips := []models.Trip{{ID: "t1", Name: "Lisbon"}, {ID: "t2", Name: "Porto"}}

	trip, err := findTrip(trips, "t2")
	require.NoError(t, err)
	assert.Equal(t, "Porto", trip.Name)

	trip, err = findTrip(trips, "lisbon")
	require.NoError(t, err)
	assert.Equal(t, "t1", trip.ID)

	_, err = findTrip(trips, "Madrid")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFindTransactionByPrefix(t *testing.T) {
	snap := testSnapshot()

	tx, err := findTransaction(snap, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Dinner", tx.Description)

	_, err = findTransaction(snap, "ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = findTransaction(snap, "zzz")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ex, err := findExchange(snap, "ex")
	require.NoError(t, err)
	assert.Equal(t, "ex-1", ex.ID)
}

func TestResolveTarget(t *testing.T) {
	snap := testSnapshot()

	for _, ref := range []string{"", "all", "ALL", models.AllEligibleWire} {
		target, err := resolveTarget(snap, ref)
		require.NoError(t, err, ref)
		assert.True(t, target.IsAllEligible(), ref)
	}

	target, err := resolveTarget(snap, "Ana")
	require.NoError(t, err)
	id, ok := target.WalletID()
	assert.True(t, ok)
	assert.Equal(t, "w-ana", id)

	_, err = resolveTarget(snap, "Carla")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestParseDate(t *testing.T) {
	ref := time.Date(2025, time.March, 10, 15, 4, 5, 0, time.Local)

	got, err := parseDate("", ref)
	require.NoError(t, err)
	assert.True(t, got.Equal(ref))

	got, err = parseDate("2025-01-02", ref)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, time.January, 2, 15, 4, 5, 0, time.Local)), got.String())

	_, err = parseDate("02/01/2025", ref)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{models.NewValidationError("amount", "must not be negative"), "amount must not be negative"},
		{fmt.Errorf("remove: %w", ledger.ErrLastWallet), "a trip needs at least one wallet"},
		{ledger.ErrWalletHasBalance, "settle the wallet's balance before removing it"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describe(tt.err))
	}
}

func TestConcernsTrip(t *testing.T) {
	assert.True(t, concernsTrip(events.New(events.WalletCreated, "trip-1", "w-1", ""), "trip-1"))
	assert.True(t, concernsTrip(events.New(events.WalletDeleted, "", "w-1", ""), "trip-1"))
	assert.False(t, concernsTrip(events.New(events.WalletCreated, "trip-2", "w-2", ""), "trip-1"))
}

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, events.New(events.TransactionCreated, "trip-1", "abcdef123456", ""))
	assert.Contains(t, buf.String(), "transaction.created")
	assert.Contains(t, buf.String(), "abcdef12")
	assert.NotContains(t, buf.String(), "abcdef123456")
}

func TestMoneyFormatsTwoDecimals(t *testing.T) {
	assert.Equal(t, "12.50", money(12.5))
	assert.Equal(t, "0.00", money(0))
}

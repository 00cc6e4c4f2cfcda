// Package calculator derives balances and reports from a trip's entities.
// Every function is pure: results depend only on the entities passed in.
package calculator

import (
	"time"

	"github.com/mmynk/moneytravel/internal/models"
)

// Entities is a read-only view of one trip's collections.
type Entities interface {
	Wallets() []models.Wallet
	Transactions() []models.Transaction
	Exchanges() []models.Exchange
}

// EligibleParticipants returns the wallets that share in an event dated at:
// included in division and created at or before at.
func EligibleParticipants(wallets []models.Wallet, at time.Time) []models.Wallet {
	var participants []models.Wallet
	for i := range wallets {
		if wallets[i].EligibleAt(at) {
			participants = append(participants, wallets[i])
		}
	}
	return participants
}

// shareDivisor counts the wallets eligible at the given date, floored at 1.
func shareDivisor(wallets []models.Wallet, at time.Time) float64 {
	n := 0
	for i := range wallets {
		if wallets[i].EligibleAt(at) {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return float64(n)
}

func findWallet(wallets []models.Wallet, walletID string) (*models.Wallet, bool) {
	for i := range wallets {
		if wallets[i].ID == walletID {
			return &wallets[i], true
		}
	}
	return nil, false
}

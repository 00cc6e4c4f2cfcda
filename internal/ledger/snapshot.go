// Package ledger mirrors one active trip in memory and keeps the mirror in
// step with a persistence backend.
//
// A Session owns the active trip. Every mutation validates its input, performs
// a single round trip to the backend and updates the mirror only when the
// backend confirms. Balances and reports are derived from the mirror on demand.
package ledger

import (
	"slices"

	"github.com/mmynk/moneytravel/internal/calculator"
	"github.com/mmynk/moneytravel/internal/models"
)

var _ calculator.Entities = (*Snapshot)(nil)

// Snapshot is the in-memory state of one trip. A Snapshot with a nil Trip is
// the empty state used when no trip is active.
type Snapshot struct {
	Trip *models.Trip

	wallets        []models.Wallet
	transactions   []models.Transaction
	exchanges      []models.Exchange
	categories     []models.Category
	paymentMethods []models.PaymentMethod
}

// NewSnapshot builds a snapshot from already loaded collections.
func NewSnapshot(
	trip *models.Trip,
	wallets []models.Wallet,
	transactions []models.Transaction,
	exchanges []models.Exchange,
	categories []models.Category,
	paymentMethods []models.PaymentMethod,
) *Snapshot {
	return &Snapshot{
		Trip:           trip,
		wallets:        wallets,
		transactions:   transactions,
		exchanges:      exchanges,
		categories:     categories,
		paymentMethods: paymentMethods,
	}
}

func (s *Snapshot) Wallets() []models.Wallet { return s.wallets }
func (s *Snapshot) Transactions() []models.Transaction { return s.transactions }
func (s *Snapshot) Exchanges() []models.Exchange { return s.exchanges }
func (s *Snapshot) Categories() []models.Category { return s.categories }
func (s *Snapshot) PaymentMethods() []models.PaymentMethod { return s.paymentMethods }

// TripID returns the ID of the snapshot's trip, or "" for the empty state.
func (s *Snapshot) TripID() string {
	if s.Trip == nil {
		return ""
	}
	return s.Trip.ID
}

// Wallet looks up a wallet by ID.
func (s *Snapshot) Wallet(id string) (models.Wallet, bool) {
	i := slices.IndexFunc(s.wallets, func(w models.Wallet) bool { return w.ID == id })
	if i < 0 {
		return models.Wallet{}, false
	}
	return s.wallets[i], true
}

// Transaction looks up a transaction by ID.
func (s *Snapshot) Transaction(id string) (models.Transaction, bool) {
	i := slices.IndexFunc(s.transactions, func(t models.Transaction) bool { return t.ID == id })
	if i < 0 {
		return models.Transaction{}, false
	}
	return s.transactions[i], true
}

// Exchange looks up an exchange by ID.
func (s *Snapshot) Exchange(id string) (models.Exchange, bool) {
	i := slices.IndexFunc(s.exchanges, func(e models.Exchange) bool { return e.ID == id })
	if i < 0 {
		return models.Exchange{}, false
	}
	return s.exchanges[i], true
}

// Category looks up a category by name.
func (s *Snapshot) Category(name string) (models.Category, bool) {
	i := slices.IndexFunc(s.categories, func(c models.Category) bool { return c.Name == name })
	if i < 0 {
		return models.Category{}, false
	}
	return s.categories[i], true
}

// PaymentMethod looks up a payment method by name.
func (s *Snapshot) PaymentMethod(name string) (models.PaymentMethod, bool) {
	i := slices.IndexFunc(s.paymentMethods, func(p models.PaymentMethod) bool { return p.Name == name })
	if i < 0 {
		return models.PaymentMethod{}, false
	}
	return s.paymentMethods[i], true
}

// clone returns a deep enough copy for callers outside the session lock.
func (s *Snapshot) clone() *Snapshot {
	c := &Snapshot{
		wallets:        slices.Clone(s.wallets),
		transactions:   slices.Clone(s.transactions),
		exchanges:      slices.Clone(s.exchanges),
		categories:     slices.Clone(s.categories),
		paymentMethods: slices.Clone(s.paymentMethods),
	}
	if s.Trip != nil {
		trip := *s.Trip
		c.Trip = &trip
	}
	return c
}

// sortTransactions keeps the newest-first order the backends list in.
func (s *Snapshot) sortTransactions() {
	slices.SortStableFunc(s.transactions, func(a, b models.Transaction) int {
		return b.Date.Compare(a.Date)
	})
}

func (s *Snapshot) sortExchanges() {
	slices.SortStableFunc(s.exchanges, func(a, b models.Exchange) int {
		return b.Date.Compare(a.Date)
	})
}

// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/moneytravel/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned (wrapped) when a unique name is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// TripStore defines row-level persistence for trips and everything scoped to them.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, a remote
// server) without changing the entity store or the service layer.
type TripStore interface {
	// ListTrips returns the owner's trips, most recent first.
	ListTrips(ctx context.Context, ownerID string) ([]models.Trip, error)
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	// CreateTrip persists a new trip. The ID and CreatedAt fields are
	// populated by the store when empty.
	CreateTrip(ctx context.Context, trip *models.Trip) error
	UpdateTrip(ctx context.Context, trip *models.Trip) error
	// DeleteTrip removes the trip and everything scoped to it.
	DeleteTrip(ctx context.Context, tripID string) error

	// ListWallets returns the trip's wallets in creation order.
	ListWallets(ctx context.Context, tripID string) ([]models.Wallet, error)
	GetWallet(ctx context.Context, walletID string) (*models.Wallet, error)
	CreateWallet(ctx context.Context, wallet *models.Wallet) error
	UpdateWallet(ctx context.Context, wallet *models.Wallet) error
	DeleteWallet(ctx context.Context, walletID string) error

	// ListTransactions returns the trip's transactions, newest first.
	ListTransactions(ctx context.Context, tripID string) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, txID string) error

	// ListExchanges returns the trip's exchanges, newest first.
	ListExchanges(ctx context.Context, tripID string) ([]models.Exchange, error)
	CreateExchange(ctx context.Context, ex *models.Exchange) error
	UpdateExchange(ctx context.Context, ex *models.Exchange) error
	DeleteExchange(ctx context.Context, exchangeID string) error

	// ListCategories returns the trip's categories with AutoShared resolved.
	ListCategories(ctx context.Context, tripID string) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	// RenameCategory re-points transactions and auto-share membership from
	// oldName to newName atomically.
	RenameCategory(ctx context.Context, tripID, oldName, newName string) error
	DeleteCategory(ctx context.Context, tripID, name string) error
	SetAutoShared(ctx context.Context, tripID, name string, autoShared bool) error

	ListPaymentMethods(ctx context.Context, tripID string) ([]models.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error
	RenamePaymentMethod(ctx context.Context, tripID, oldName, newName string) error
	DeletePaymentMethod(ctx context.Context, tripID, name string) error
}

// UserStore defines persistence for user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// Store is the full server-side persistence backend.
type Store interface {
	TripStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// Package events publishes notifications about ledger mutations so other
// processes (sync workers, notifiers) can react without polling the database.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type names the mutation that happened.
type Type string

const (
	TripCreated        Type = "trip.created"
	TripUpdated        Type = "trip.updated"
	TripDeleted        Type = "trip.deleted"
	WalletCreated      Type = "wallet.created"
	WalletUpdated      Type = "wallet.updated"
	WalletDeleted      Type = "wallet.deleted"
	TransactionCreated Type = "transaction.created"
	TransactionUpdated Type = "transaction.updated"
	TransactionDeleted Type = "transaction.deleted"
	ExchangeCreated    Type = "exchange.created"
	ExchangeUpdated    Type = "exchange.updated"
	ExchangeDeleted    Type = "exchange.deleted"
	CatalogChanged     Type = "catalog.changed"
)

// Event is a lightweight message. Consumers fetch the entity itself when
// they need more than its identity.
type Event struct {
	Type     Type      `json:"type"`
	TripID   string    `json:"trip_id"`
	EntityID string    `json:"entity_id,omitempty"`
	UserID   string    `json:"user_id,omitempty"`
	At       time.Time `json:"at"`
}

// New builds an event stamped with the current time.
func New(t Type, tripID, entityID, userID string) Event {
	return Event{
		Type:     t,
		TripID:   tripID,
		EntityID: entityID,
		UserID:   userID,
		At:       time.Now().UTC(),
	}
}

// Marshal encodes the event as JSON.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal decodes an event previously produced by Marshal.
func Unmarshal(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers events. Publishing is best effort: callers log failures
// and never roll back the mutation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

func (Nop) Close() error { return nil }

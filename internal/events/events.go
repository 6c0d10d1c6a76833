package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindTransactionCreated  Kind = "transaction.created"
	KindTransactionUpdated  Kind = "transaction.updated"
	KindTransactionDeleted  Kind = "transaction.deleted"
	KindTransactionImported Kind = "transaction.imported"
)

// Event notifies downstream consumers that a user's ledger changed.
// Consumers fetch the current state themselves.
type Event struct {
	Kind          Kind      `json:"kind"`
	UserID        uuid.UUID `json:"userId"`
	TransactionID uuid.UUID `json:"transactionId"`
	At            time.Time `json:"at"`
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

//go:generate mockgen -source=events.go -destination=publisher_mock.go -package=events
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

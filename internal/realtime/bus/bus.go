package bus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventCreated = "calendar_event.created"
	EventUpdated = "calendar_event.updated"
	EventDeleted = "calendar_event.deleted"
)

// Message announces a committed change to one calendar event.
type Message struct {
	Type       string    `json:"type"`
	OwnerID    uuid.UUID `json:"owner_id"`
	EventID    uuid.UUID `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Bus interface {
	Publish(ctx context.Context, msg Message) error
	StartForwarder(ctx context.Context, onMsg func(m Message)) error
	Close() error
}

type nopBus struct{}

// NewNopBus discards every message.
func NewNopBus() Bus { return nopBus{} }

func (nopBus) Publish(context.Context, Message) error { return nil }

func (nopBus) StartForwarder(context.Context, func(Message)) error { return nil }

func (nopBus) Close() error { return nil }

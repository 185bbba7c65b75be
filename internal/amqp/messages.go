package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// TransactionEvent announces a committed change to one transaction. It
// carries only identifiers; consumers reload the row from the database.
type TransactionEvent struct {
	Event     EventType `json:"event"`
	Owner     string    `json:"owner"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

var ErrInvalidEvent = errors.New("invalid transaction event")

func NewTransactionEvent(event EventType, owner, id string) *TransactionEvent {
	return &TransactionEvent{
		Event:     event,
		Owner:     owner,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// key identifies one published event across redeliveries.
func (m *TransactionEvent) key() string {
	return string(m.Event) + "|" + m.Owner + "|" + m.ID + "|" + m.Timestamp.Format(time.RFC3339Nano)
}

func (m *TransactionEvent) Validate() error {
	switch m.Event {
	case EventCreated, EventUpdated, EventDeleted:
	default:
		return ErrInvalidEvent
	}
	if m.ID == "" || m.Owner == "" {
		return ErrInvalidEvent
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON decodes and validates a message body.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

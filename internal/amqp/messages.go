package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Op names the repository write that produced an event.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
)

// TransactionEvent announces a committed change to the transaction
// collection. It carries only the id; consumers read the record itself.
type TransactionEvent struct {
	MessageID     string    `json:"message_id"`
	Op            Op        `json:"op"`
	TransactionID int64     `json:"transaction_id"`
	Revision      uint64    `json:"revision"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event with a fresh message id.
func NewTransactionEvent(op Op, id int64, revision uint64, at time.Time) *TransactionEvent {
	return &TransactionEvent{
		MessageID:     uuid.NewString(),
		Op:            op,
		TransactionID: id,
		Revision:      revision,
		Timestamp:     at.UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes and checks an event.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Op {
	case OpAdd, OpUpdate, OpRemove:
	default:
		return nil, fmt.Errorf("unknown op %q", e.Op)
	}
	if _, err := uuid.Parse(e.MessageID); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}
	return &e, nil
}

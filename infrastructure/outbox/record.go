/*
Package outbox relays domain events written inside business transactions.

Stores write Records in the same transaction as the state change; the Worker
later reads pending records and hands them to a Publisher, so an event is
published only if its transaction committed.
*/
package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"campusfood/domain/shared"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusPublished  Status = "PUBLISHED"
	StatusFailed     Status = "FAILED"
)

// Record is one stored event.
type Record struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     string
	Status      Status
	RetryCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Envelope is the JSON body published for every event.
type Envelope struct {
	ID          string         `json:"id"`
	EventName   string         `json:"event_name"`
	AggregateID string         `json:"aggregate_id"`
	OccurredOn  time.Time      `json:"occurred_on"`
	Data        map[string]any `json:"data"`
}

// Encode validates event and turns it into a pending Record.
func Encode(event shared.DomainEvent) (Record, error) {
	if err := shared.ValidateEvent(event); err != nil {
		return Record{}, fmt.Errorf("invalid domain event: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	body, err := json.Marshal(Envelope{
		ID:          id.String(),
		EventName:   event.EventName(),
		AggregateID: event.GetAggregateID(),
		OccurredOn:  event.OccurredOn().UTC(),
		Data:        event.Payload(),
	})
	if err != nil {
		return Record{}, fmt.Errorf("encode %s: %w", event.EventName(), err)
	}

	now := time.Now()
	return Record{
		ID:          id.String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     string(body),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Decode parses a stored payload back into its envelope.
func Decode(payload string) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal([]byte(payload), &env)
	return env, err
}

// NextStatus is the status after a failed publish attempt.
func NextStatus(retryCount, maxRetries int) Status {
	if retryCount < maxRetries {
		return StatusPending
	}
	return StatusFailed
}

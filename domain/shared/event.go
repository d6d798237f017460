package shared

import (
	"errors"
	"time"
)

// DomainEvent is something that happened inside an aggregate.
// Events are written to the outbox in the same transaction as the state change.
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string

	// Payload is the event body published to subscribers.
	Payload() map[string]any
}

func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if event.EventName() == "" {
		return errors.New("event name cannot be empty")
	}
	if event.GetAggregateID() == "" || event.GetAggregateID() == "0" {
		return errors.New("aggregate ID cannot be empty")
	}
	if event.OccurredOn().IsZero() {
		return errors.New("occurred on time cannot be zero")
	}
	return nil
}

package shared

// AggregateRoot is the entry point of a consistency boundary.
// Identities are assigned by the store on first insert, so ID is zero until then.
type AggregateRoot interface {
	ID() int64

	// PullEvents returns and clears the events recorded since the last pull.
	// The Unit of Work calls it before commit and writes the events to the outbox.
	PullEvents() []DomainEvent
}

// Entity has identity but is reached through its aggregate.
type Entity interface {
	ID() int64
}

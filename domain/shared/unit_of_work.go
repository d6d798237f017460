package shared

import "context"

// UnitOfWork owns one transaction and the aggregates touched inside it.
// Repositories called with the ctx passed to fn join that transaction.
// Execute called with a ctx that already carries a transaction joins it.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

// UnitOfWorkFactory hands out a fresh UnitOfWork per operation so concurrent
// requests never share registered aggregates.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}

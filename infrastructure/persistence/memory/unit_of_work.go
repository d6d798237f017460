package memory

import (
	"context"
	"fmt"

	"campusfood/domain/shared"
	"campusfood/infrastructure/persistence"
	"campusfood/infrastructure/persistence/monitor"
	"campusfood/pkg/logger"

	"go.uber.org/zap"
)

// UnitOfWork mirrors the relational one on top of Store transactions.
type UnitOfWork struct {
	store      *Store
	outbox     *OutboxRepository
	monitor    *monitor.HoldMonitor
	aggregates []shared.AggregateRoot
}

func NewUnitOfWork(store *Store, hold *monitor.HoldMonitor) *UnitOfWork {
	return &UnitOfWork{
		store:   store,
		outbox:  NewOutboxRepository(store),
		monitor: hold,
	}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = nil
	if u.store.txFrom(ctx) != nil {
		if err := fn(ctx); err != nil {
			return err
		}
		return u.flushEvents(ctx)
	}

	op := persistence.OperationFromContext(ctx)
	t := u.store.begin()
	release := u.monitor.Track(ctx, op)
	defer release()

	defer func() {
		if r := recover(); r != nil {
			u.store.rollback(t)
			logger.FromContext(ctx).Error("Transaction rolled back after panic",
				zap.String("op", op),
				zap.Any("panic", r),
			)
			panic(r)
		}
	}()

	txCtx := contextWithTx(ctx, t)
	if err := fn(txCtx); err != nil {
		u.store.rollback(t)
		return err
	}
	if err := u.flushEvents(txCtx); err != nil {
		u.store.rollback(t)
		return err
	}
	u.store.commit(t)
	return nil
}

func (u *UnitOfWork) flushEvents(ctx context.Context) error {
	for _, agg := range u.aggregates {
		for _, event := range agg.PullEvents() {
			if err := u.outbox.SaveEvent(ctx, event); err != nil {
				return fmt.Errorf("failed to save event to outbox: %w", err)
			}
		}
	}
	return nil
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)

type UnitOfWorkFactory struct {
	store   *Store
	monitor *monitor.HoldMonitor
}

func NewUnitOfWorkFactory(store *Store, hold *monitor.HoldMonitor) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, monitor: hold}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.store, f.monitor)
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

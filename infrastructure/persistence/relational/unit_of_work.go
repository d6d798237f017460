package relational

import (
	"context"
	"fmt"

	"campusfood/domain/shared"
	"campusfood/infrastructure/persistence"
	"campusfood/infrastructure/persistence/monitor"
	"campusfood/infrastructure/persistence/retry"
	"campusfood/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork runs business logic inside one GORM transaction and writes the
// events of registered aggregates to the outbox before commit.
type UnitOfWork struct {
	db          *gorm.DB
	outbox      *OutboxRepository
	retryConfig retry.Config
	monitor     *monitor.HoldMonitor
	aggregates  []shared.AggregateRoot
}

func NewUnitOfWork(db *gorm.DB, retryConfig retry.Config, hold *monitor.HoldMonitor) *UnitOfWork {
	return &UnitOfWork{
		db:          db,
		outbox:      NewOutboxRepository(db),
		retryConfig: retryConfig,
		monitor:     hold,
	}
}

// Execute commits when fn returns nil and rolls back on error or panic.
// When ctx already carries a transaction, fn joins it and the outer unit commits.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if persistence.TxFromContext(ctx) != nil {
		u.aggregates = nil
		if err := fn(ctx); err != nil {
			return err
		}
		return u.flushEvents(ctx)
	}
	return retry.ExecuteWithRetry(ctx, u.retryConfig, u.executeOnce(fn))
}

func (u *UnitOfWork) executeOnce(fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		u.aggregates = nil
		op := persistence.OperationFromContext(ctx)

		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return shared.NewPersistenceError("transaction", "begin", tx.Error)
		}
		release := u.monitor.Track(ctx, op)
		defer release()

		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
				logger.FromContext(ctx).Error("Transaction rolled back after panic",
					zap.String("op", op),
					zap.Any("panic", r),
				)
				panic(r)
			}
		}()

		txCtx := persistence.ContextWithTx(ctx, tx)
		if err := fn(txCtx); err != nil {
			tx.Rollback()
			return err
		}
		if err := u.flushEvents(txCtx); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit().Error; err != nil {
			return shared.NewPersistenceError("transaction", "commit", err)
		}
		return nil
	}
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

// UnitOfWorkFactory hands out one UnitOfWork per operation.
type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryConfig retry.Config
	monitor     *monitor.HoldMonitor
}

func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config, hold *monitor.HoldMonitor) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, retryConfig: retryConfig, monitor: hold}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.db, f.retryConfig, f.monitor)
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

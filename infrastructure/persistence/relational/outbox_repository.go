package relational

import (
	"context"
	"fmt"
	"time"

	"campusfood/domain/shared"
	"campusfood/infrastructure/outbox"
	"campusfood/infrastructure/persistence"
	"campusfood/infrastructure/persistence/relational/po"

	"gorm.io/gorm"
)

// OutboxRepository stores events in outbox_events and serves the relay worker.
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// SaveEvent joins the caller's transaction when there is one.
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	record, err := outbox.Encode(event)
	if err != nil {
		return err
	}
	if err := r.getDB(ctx).Create(po.FromRecord(record)).Error; err != nil {
		return wrapErr("outbox event", "insert", err)
	}
	return nil
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]outbox.Record, error) {
	var rows []po.OutboxEventPO
	err := r.getDB(ctx).
		Where("status = ?", string(outbox.StatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	records := make([]outbox.Record, len(rows))
	for i := range rows {
		records[i] = rows[i].ToRecord()
	}
	return records, nil
}

func (r *OutboxRepository) MarkProcessing(ctx context.Context, id string) error {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", id, string(outbox.StatusPending)).
		Updates(map[string]any{
			"status":     string(outbox.StatusProcessing),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found or already being processed: %s", id)
	}
	return nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string) error {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(outbox.StatusPublished),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found: %s", id)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, maxRetries int) error {
	var row po.OutboxEventPO
	db := r.getDB(ctx)
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to find event: %w", err)
	}
	retries := row.RetryCount + 1
	return db.Model(&po.OutboxEventPO{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      string(outbox.NextStatus(retries, maxRetries)),
			"retry_count": retries,
			"updated_at":  time.Now(),
		}).Error
}

var (
	_ shared.OutboxRepository = (*OutboxRepository)(nil)
	_ outbox.Store            = (*OutboxRepository)(nil)
)

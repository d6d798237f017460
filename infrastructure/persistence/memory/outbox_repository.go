package memory

import (
	"context"
	"fmt"
	"time"

	"campusfood/domain/shared"
	"campusfood/infrastructure/outbox"
)

// OutboxRepository keeps records in insertion order, which is also creation order.
type OutboxRepository struct {
	store *Store
}

func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	record, err := outbox.Encode(event)
	if err != nil {
		return err
	}
	return r.store.write(ctx, func(st *state) error {
		if err := r.store.fault("outbox.insert"); err != nil {
			return err
		}
		st.outbox = append(st.outbox, record)
		return nil
	})
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]outbox.Record, error) {
	var records []outbox.Record
	err := r.store.read(ctx, func(st *state) error {
		for _, rec := range st.outbox {
			if limit > 0 && len(records) == limit {
				break
			}
			if rec.Status == outbox.StatusPending {
				records = append(records, rec)
			}
		}
		return nil
	})
	return records, err
}

// Records returns every stored record regardless of status.
func (r *OutboxRepository) Records(ctx context.Context) []outbox.Record {
	var records []outbox.Record
	_ = r.store.read(ctx, func(st *state) error {
		records = append(records, st.outbox...)
		return nil
	})
	return records
}

func (r *OutboxRepository) update(ctx context.Context, id string, fn func(rec *outbox.Record) error) error {
	return r.store.write(ctx, func(st *state) error {
		for i := range st.outbox {
			if st.outbox[i].ID == id {
				if err := fn(&st.outbox[i]); err != nil {
					return err
				}
				st.outbox[i].UpdatedAt = time.Now()
				return nil
			}
		}
		return fmt.Errorf("event not found: %s", id)
	})
}

func (r *OutboxRepository) MarkProcessing(ctx context.Context, id string) error {
	return r.update(ctx, id, func(rec *outbox.Record) error {
		if rec.Status != outbox.StatusPending {
			return fmt.Errorf("event not found or already being processed: %s", id)
		}
		rec.Status = outbox.StatusProcessing
		return nil
	})
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string) error {
	return r.update(ctx, id, func(rec *outbox.Record) error {
		rec.Status = outbox.StatusPublished
		return nil
	})
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, maxRetries int) error {
	return r.update(ctx, id, func(rec *outbox.Record) error {
		rec.RetryCount++
		rec.Status = outbox.NextStatus(rec.RetryCount, maxRetries)
		return nil
	})
}

var (
	_ shared.OutboxRepository = (*OutboxRepository)(nil)
	_ outbox.Store            = (*OutboxRepository)(nil)
)

package outbox

import (
	"context"
	"fmt"
	"time"

	"campusfood/pkg/logger"

	"go.uber.org/zap"
)

// Store is the worker's view of the outbox table.
type Store interface {
	FetchPending(ctx context.Context, limit int) ([]Record, error)
	// MarkProcessing claims a pending record; it fails if another worker got there first.
	MarkProcessing(ctx context.Context, id string) error
	MarkPublished(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, maxRetries int) error
}

type Publisher interface {
	Publish(ctx context.Context, record Record) error
}

// LoggingPublisher writes events to the log instead of a broker.
type LoggingPublisher struct{}

func (LoggingPublisher) Publish(ctx context.Context, record Record) error {
	logger.FromContext(ctx).Info("Outbox event published",
		zap.String("event_id", record.ID),
		zap.String("event_type", record.EventType),
		zap.String("aggregate_id", record.AggregateID),
		zap.String("payload", record.Payload),
	)
	return nil
}

type Worker struct {
	store        Store
	publisher    Publisher
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
}

func NewWorker(store Store, publisher Publisher, pollInterval time.Duration, batchSize, maxRetries int) (*Worker, error) {
	if store == nil {
		return nil, fmt.Errorf("outbox store is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}
	return &Worker{
		store:        store,
		publisher:    publisher,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		maxRetries:   maxRetries,
	}, nil
}

// Run polls until ctx is cancelled. It returns nil on cancellation.
func (w *Worker) Run(ctx context.Context) error {
	logger.Info("Outbox worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize),
	)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Outbox worker stopped")
			return nil
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes up to one batch and reports how many records were published.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	records, err := w.store.FetchPending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, record := range records {
		if err := w.store.MarkProcessing(ctx, record.ID); err != nil {
			logger.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", record.ID),
				zap.Error(err),
			)
			continue
		}

		if err := w.publisher.Publish(ctx, record); err != nil {
			logger.Warn("Outbox publish failed",
				zap.String("event_id", record.ID),
				zap.String("event_type", record.EventType),
				zap.Int("retry_count", record.RetryCount+1),
				zap.Error(err),
			)
			if failErr := w.store.MarkFailed(ctx, record.ID, w.maxRetries); failErr != nil {
				logger.Error("Failed to mark outbox event as failed",
					zap.String("event_id", record.ID),
					zap.Error(failErr),
				)
			}
			continue
		}

		if err := w.store.MarkPublished(ctx, record.ID); err != nil {
			logger.Error("Failed to mark outbox event as published",
				zap.String("event_id", record.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}
	return published, nil
}

package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvent struct{ id string }

func (e fakeEvent) EventName() string      { return "order.placed" }
func (e fakeEvent) OccurredOn() time.Time  { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
func (e fakeEvent) GetAggregateID() string { return e.id }

func (e fakeEvent) Payload() map[string]any {
	return map[string]any{"order_id": e.id, "total_amount": "13.50"}
}

type sliceStore struct {
	mu      sync.Mutex
	records []Record
}

func (s *sliceStore) find(id string) *Record {
	for i := range s.records {
		if s.records[i].ID == id {
			return &s.records[i]
		}
	}
	return nil
}

func (s *sliceStore) FetchPending(_ context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, r := range s.records {
		if r.Status == StatusPending && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *sliceStore) MarkProcessing(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.find(id)
	if r == nil || r.Status != StatusPending {
		return fmt.Errorf("event %s already claimed", id)
	}
	r.Status = StatusProcessing
	return nil
}

func (s *sliceStore) MarkPublished(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.find(id).Status = StatusPublished
	return nil
}

func (s *sliceStore) MarkFailed(_ context.Context, id string, maxRetries int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.find(id)
	r.RetryCount++
	r.Status = NextStatus(r.RetryCount, maxRetries)
	return nil
}

type flakyPublisher struct {
	failFor map[string]bool
	got     []string
}

func (p *flakyPublisher) Publish(_ context.Context, r Record) error {
	if p.failFor[r.AggregateID] {
		return errors.New("broker unavailable")
	}
	p.got = append(p.got, r.AggregateID)
	return nil
}

func encode(t *testing.T, id string) Record {
	r, err := Encode(fakeEvent{id: id})
	require.NoError(t, err)
	return r
}

func TestEncodeDecode(t *testing.T) {
	r := encode(t, "42")
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, "order.placed", r.EventType)

	env, err := Decode(r.Payload)
	require.NoError(t, err)
	assert.Equal(t, r.ID, env.ID)
	assert.Equal(t, "42", env.AggregateID)
	assert.Equal(t, "13.50", env.Data["total_amount"])

	_, err = Encode(fakeEvent{id: "0"})
	assert.Error(t, err)
}

func TestProcessBatch(t *testing.T) {
	store := &sliceStore{records: []Record{encode(t, "1"), encode(t, "2"), encode(t, "3")}}
	pub := &flakyPublisher{failFor: map[string]bool{"2": true}}
	w, err := NewWorker(store, pub, time.Second, 10, 2)
	require.NoError(t, err)

	n, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"1", "3"}, pub.got)
	assert.Equal(t, StatusPending, store.find(store.records[1].ID).Status)

	n, err = w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, StatusFailed, store.records[1].Status)
	assert.Equal(t, 2, store.records[1].RetryCount)
}

func TestNewWorkerValidates(t *testing.T) {
	_, err := NewWorker(nil, LoggingPublisher{}, time.Second, 1, 1)
	assert.Error(t, err)
	_, err = NewWorker(&sliceStore{}, LoggingPublisher{}, 0, 1, 1)
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	store := &sliceStore{records: []Record{encode(t, "1")}}
	w, err := NewWorker(store, LoggingPublisher{}, 5*time.Millisecond, 10, 3)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.records[0].Status == StatusPublished
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
